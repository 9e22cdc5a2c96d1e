package dto

import "github.com/shopspring/decimal"

// ─── Planes ──────────────────────────────────────────────────────────────────

type PlanFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=Activa Inactiva"`
}

type CrearPlanRequest struct {
	NombrePlan             string          `json:"nombre_plan"              validate:"required,min=2,max=100"`
	Descripcion            *string         `json:"descripcion"              validate:"omitempty,max=1000"`
	Precio                 decimal.Decimal `json:"precio"                   validate:"required,gt=0"`
	DuracionDias           int             `json:"duracion_dias"            validate:"required,min=1,max=3650"`
	AccesoGimnasio         *bool           `json:"acceso_gimnasio"`
	AccesoEntrenador       bool            `json:"acceso_entrenador"`
	AccesoAsistenteVirtual bool            `json:"acceso_asistente_virtual"`
}

type ActualizarPlanRequest struct {
	NombrePlan             *string          `json:"nombre_plan"   validate:"omitempty,min=2,max=100"`
	Descripcion            *string          `json:"descripcion"   validate:"omitempty,max=1000"`
	Precio                 *decimal.Decimal `json:"precio"`
	DuracionDias           *int             `json:"duracion_dias" validate:"omitempty,min=1,max=3650"`
	AccesoGimnasio         *bool            `json:"acceso_gimnasio"`
	AccesoEntrenador       *bool            `json:"acceso_entrenador"`
	AccesoAsistenteVirtual *bool            `json:"acceso_asistente_virtual"`
	Estado                 *string          `json:"estado"        validate:"omitempty,oneof=Activa Inactiva"`
}

type PlanResponse struct {
	ID                     string          `json:"id"`
	NombrePlan             string          `json:"nombre_plan"`
	Descripcion            *string         `json:"descripcion"`
	Precio                 decimal.Decimal `json:"precio"`
	DuracionDias           int             `json:"duracion_dias"`
	AccesoGimnasio         bool            `json:"acceso_gimnasio"`
	AccesoEntrenador       bool            `json:"acceso_entrenador"`
	AccesoAsistenteVirtual bool            `json:"acceso_asistente_virtual"`
	Estado                 string          `json:"estado"`
}

// ─── Membresias ──────────────────────────────────────────────────────────────

type MembresiaFilter struct {
	IDCliente string `form:"id_cliente" validate:"omitempty,uuid"`
	Estado    string `form:"estado"     validate:"omitempty,oneof=Activa Vencida Suspendida Cancelada"`
}

type CrearMembresiaRequest struct {
	IDPlan            string           `json:"id_plan"           validate:"required,uuid"`
	IDCliente         string           `json:"id_cliente"        validate:"required,uuid"`
	FechaInicio       *string          `json:"fecha_inicio"      validate:"omitempty,datetime=2006-01-02"`
	FechaVencimiento  *string          `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	MontoPagado       *decimal.Decimal `json:"monto_pagado"`
	DescuentoAplicado *decimal.Decimal `json:"descuento_aplicado"`
	Notas             *string          `json:"notas"             validate:"omitempty,max=1000"`
}

type ActualizarMembresiaRequest struct {
	FechaInicio       *string          `json:"fecha_inicio"      validate:"omitempty,datetime=2006-01-02"`
	FechaVencimiento  *string          `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	Estado            *string          `json:"estado"            validate:"omitempty,oneof=Activa Vencida Suspendida Cancelada"`
	MontoPagado       *decimal.Decimal `json:"monto_pagado"`
	DescuentoAplicado *decimal.Decimal `json:"descuento_aplicado"`
	Notas             *string          `json:"notas"             validate:"omitempty,max=1000"`
}

type MembresiaResponse struct {
	ID                string           `json:"id"`
	IDPlan            string           `json:"id_plan"`
	NombrePlan        string           `json:"nombre_plan,omitempty"`
	IDCliente         string           `json:"id_cliente"`
	FechaInicio       string           `json:"fecha_inicio"`
	FechaVencimiento  string           `json:"fecha_vencimiento"`
	Estado            string           `json:"estado"`
	MontoPagado       *decimal.Decimal `json:"monto_pagado"`
	DescuentoAplicado *decimal.Decimal `json:"descuento_aplicado"`
	Notas             *string          `json:"notas"`
}

// ─── Pagos ───────────────────────────────────────────────────────────────────

type PagoFilter struct {
	IDMembresia string `form:"id_membresia" validate:"omitempty,uuid"`
}

// CrearPagoRequest carries no amount: the amount is derived from the
// membership (monto_pagado and descuento_aplicado).
type CrearPagoRequest struct {
	IDMembresia string  `json:"id_membresia" validate:"required,uuid"`
	MetodoPago  string  `json:"metodo_pago"  validate:"required,oneof=Efectivo Transferencia Tarjeta"`
	Referencia  *string `json:"referencia"   validate:"omitempty,max=50"`
	Notas       *string `json:"notas"        validate:"omitempty,max=1000"`
}

type PagoResponse struct {
	ID           string          `json:"id"`
	IDMembresia  string          `json:"id_membresia"`
	Monto        decimal.Decimal `json:"monto"`
	MetodoPago   string          `json:"metodo_pago"`
	FechaPago    string          `json:"fecha_pago"`
	Comprobante  *string         `json:"comprobante"`
	Referencia   string          `json:"referencia"`
	ProcesadoPor *string         `json:"procesado_por"`
	Estado       string          `json:"estado"`
	Notas        *string         `json:"notas"`
}
