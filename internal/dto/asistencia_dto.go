package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarQRRequest struct {
	IDUsuario string `json:"id_usuario" validate:"required,uuid"`
	CodigoQR  string `json:"codigo_qr"  validate:"required,max=100"`
}

// RegistrarManualRequest: Tipo empty toggles like a QR scan; "entrada" and
// "salida" force the direction.
type RegistrarManualRequest struct {
	IDUsuario string  `json:"id_usuario" validate:"required,uuid"`
	Tipo      string  `json:"tipo"`
	Notas     *string `json:"notas" validate:"omitempty,max=1000"`
}

// AsistenciaQuery is bound from the query string of the listing endpoints.
type AsistenciaQuery struct {
	Desde    string `form:"desde"  validate:"omitempty,datetime=2006-01-02"`
	Hasta    string `form:"hasta"  validate:"omitempty,datetime=2006-01-02"`
	Abiertas bool   `form:"abiertas"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=500"`
	Offset   int    `form:"offset,default=0" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AsistenciaResponse struct {
	ID              string  `json:"id"`
	IDUsuario       string  `json:"id_usuario"`
	IDCodigoQR      *string `json:"id_codigo_qr"`
	FechaEntrada    string  `json:"fecha_entrada"`
	FechaSalida     *string `json:"fecha_salida"`
	DuracionMinutos *int    `json:"duracion_minutos"`
	TipoAcceso      string  `json:"tipo_acceso"`
	EstadoAcceso    string  `json:"estado_acceso"`
	Notas           *string `json:"notas"`
}

// RegistroAsistenciaResponse is returned by the check-in/out endpoints.
// Movimiento is "entrada" (201) or "salida" (200).
type RegistroAsistenciaResponse struct {
	Mensaje    string `json:"mensaje"`
	Movimiento string `json:"movimiento"`
	AsistenciaResponse
}

type AsistenciaAdminItem struct {
	AsistenciaResponse
	Username string `json:"username"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

type AsistenciaListResponse struct {
	Data   []AsistenciaAdminItem `json:"data"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

type ResumenDiarioResponse struct {
	Fecha            string `json:"fecha"`
	TotalAsistencias int64  `json:"total_asistencias"`
	UsuariosUnicos   int64  `json:"usuarios_unicos"`
}

// ─── Codigos QR ──────────────────────────────────────────────────────────────

type EmitirCodigoManualRequest struct {
	CodigoQR     string `json:"codigo_qr"     validate:"required,min=4,max=100"`
	HorasValidez *int   `json:"horas_validez" validate:"omitempty,min=1,max=720"`
}

type CodigoQRResponse struct {
	ID              string `json:"id"`
	CodigoQR        string `json:"codigo_qr"`
	FechaGeneracion string `json:"fecha_generacion"`
	FechaExpiracion string `json:"fecha_expiracion"`
	Estado          bool   `json:"estado"`
	TipoCodigo      string `json:"tipo_codigo"`
}

// ─── Dashboard ───────────────────────────────────────────────────────────────

type PlanConteoResponse struct {
	Plan  string `json:"plan"`
	Total int64  `json:"total"`
}

type ResumenHoyResponse struct {
	Fecha                      string               `json:"fecha"`
	AsistenciasTotalesHoy      int64                `json:"asistencias_totales_hoy"`
	AsistenciasActivasAhora    int64                `json:"asistencias_activas_ahora"`
	PromedioDuracionMinutosHoy float64              `json:"promedio_duracion_minutos_hoy"`
	PorMembresiaHoy            []PlanConteoResponse `json:"por_membresia_hoy"`
	IngresosHoy                decimal.Decimal      `json:"ingresos_hoy"`
}
