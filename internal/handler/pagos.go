package handler

import (
	"fmt"
	"net/http"

	"gimnasio/internal/dto"
	"gimnasio/internal/middleware"
	"gimnasio/internal/service"

	"github.com/gin-gonic/gin"
)

// PagosHandler serves /api/pagos: plans, memberships and payments.
type PagosHandler struct {
	planes     service.PlanService
	membresias service.MembresiaService
	pagos      service.PagoService
}

func NewPagosHandler(planes service.PlanService, membresias service.MembresiaService, pagos service.PagoService) *PagosHandler {
	return &PagosHandler{planes: planes, membresias: membresias, pagos: pagos}
}

// ── Planes ───────────────────────────────────────────────────────────────────

func (h *PagosHandler) ListarPlanes(c *gin.Context) {
	var f dto.PlanFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.planes.Listar(c.Request.Context(), f.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagosHandler) ObtenerPlan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.planes.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagosHandler) CrearPlan(c *gin.Context) {
	var req dto.CrearPlanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.planes.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PagosHandler) ActualizarPlan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarPlanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.planes.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagosHandler) EliminarPlan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.planes.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Membresias ───────────────────────────────────────────────────────────────

func (h *PagosHandler) ListarMembresias(c *gin.Context) {
	var f dto.MembresiaFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.membresias.Listar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagosHandler) ObtenerMembresia(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.membresias.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagosHandler) CrearMembresia(c *gin.Context) {
	var req dto.CrearMembresiaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.membresias.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PagosHandler) ActualizarMembresia(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarMembresiaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.membresias.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagosHandler) EliminarMembresia(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.membresias.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Pagos ────────────────────────────────────────────────────────────────────

func (h *PagosHandler) ListarPagos(c *gin.Context) {
	var f dto.PagoFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.pagos.Listar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagosHandler) ObtenerPago(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.pagos.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearPago POST /api/pagos/pagos. The amount is computed server-side.
func (h *PagosHandler) CrearPago(c *gin.Context) {
	var req dto.CrearPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.pagos.Crear(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PagosHandler) AnularPago(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.pagos.Anular(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SubirComprobante POST /api/pagos/pagos/:id/comprobante (multipart "archivo")
func (h *PagosHandler) SubirComprobante(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fh, ok := formFile(c, "archivo")
	if !ok {
		return
	}
	resp, err := h.pagos.SubirComprobante(c.Request.Context(), id, fh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recibo GET /api/pagos/pagos/:id/recibo
func (h *PagosHandler) Recibo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	buf, nombre, err := h.pagos.Recibo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
