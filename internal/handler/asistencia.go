package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"gimnasio/internal/dto"
	"gimnasio/internal/middleware"
	"gimnasio/internal/service"

	"github.com/gin-gonic/gin"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ControlAccesoHandler serves /api/control-acceso: attendance and QR codes.
type ControlAccesoHandler struct {
	asistencias service.AsistenciaService
	codigos     service.CodigoQRService
	reportes    service.ReporteService
}

func NewControlAccesoHandler(asistencias service.AsistenciaService, codigos service.CodigoQRService, reportes service.ReporteService) *ControlAccesoHandler {
	return &ControlAccesoHandler{asistencias: asistencias, codigos: codigos, reportes: reportes}
}

// statusMovimiento is 201 for a check-in and 200 for a check-out.
func statusMovimiento(resp *dto.RegistroAsistenciaResponse) int {
	if resp.Movimiento == service.MovimientoEntrada {
		return http.StatusCreated
	}
	return http.StatusOK
}

// ── Asistencia ───────────────────────────────────────────────────────────────

// RegistrarQR POST /api/control-acceso/asistencia/qr
// Toggles the user's visit: opens one (201) or closes today's open one (200).
func (h *ControlAccesoHandler) RegistrarQR(c *gin.Context) {
	var req dto.RegistrarQRRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.asistencias.RegistrarQR(c.Request.Context(), solicitante(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(statusMovimiento(resp), resp)
}

// RegistrarManual POST /api/control-acceso/asistencia/manual
func (h *ControlAccesoHandler) RegistrarManual(c *gin.Context) {
	var req dto.RegistrarManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.asistencias.RegistrarManual(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(statusMovimiento(resp), resp)
}

// PorUsuario GET /api/control-acceso/asistencia/usuario/:id_usuario
func (h *ControlAccesoHandler) PorUsuario(c *gin.Context) {
	id, ok := parseID(c, "id_usuario")
	if !ok {
		return
	}
	var q dto.AsistenciaQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.asistencias.ListarPorUsuario(c.Request.Context(), id, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MiAsistencia GET /api/control-acceso/asistencia/mi-asistencia
func (h *ControlAccesoHandler) MiAsistencia(c *gin.Context) {
	var q dto.AsistenciaQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.asistencias.ListarPorUsuario(c.Request.Context(), middleware.UserID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorDia GET /api/control-acceso/asistencia/por-dia
func (h *ControlAccesoHandler) PorDia(c *gin.Context) {
	var r dto.RangoFechas
	if !bindQuery(c, &r) {
		return
	}
	resp, err := h.asistencias.ListarPorDia(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarAdmin GET /api/control-acceso/asistencia
func (h *ControlAccesoHandler) ListarAdmin(c *gin.Context) {
	var q dto.AsistenciaQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.asistencias.ListarAdmin(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar GET /api/control-acceso/asistencia/exportar
func (h *ControlAccesoHandler) Exportar(c *gin.Context) {
	var r dto.RangoFechas
	if !bindQuery(c, &r) {
		return
	}
	buf, nombre, err := h.reportes.ExportarAsistencias(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ── Codigos QR ───────────────────────────────────────────────────────────────

func (h *ControlAccesoHandler) ListarCodigos(c *gin.Context) {
	resp, err := h.codigos.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CodigoActual GET /api/control-acceso/codigo-qr/actual
func (h *ControlAccesoHandler) CodigoActual(c *gin.Context) {
	resp, err := h.codigos.Actual(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImagenActual GET /api/control-acceso/codigo-qr/actual/imagen?size=256
func (h *ControlAccesoHandler) ImagenActual(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	png, err := h.codigos.ActualPNG(c.Request.Context(), size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// EmitirManual POST /api/control-acceso/codigo-qr/manual
func (h *ControlAccesoHandler) EmitirManual(c *gin.Context) {
	var req dto.EmitirCodigoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.codigos.EmitirManual(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EmitirAutomatico POST /api/control-acceso/codigo-qr/automatico
// Returns the current code with 200 while it is still valid.
func (h *ControlAccesoHandler) EmitirAutomatico(c *gin.Context) {
	resp, creado, err := h.codigos.EmitirAutomatico(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if creado {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}
