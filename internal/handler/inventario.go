package handler

import (
	"net/http"

	"gimnasio/internal/dto"
	"gimnasio/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct {
	categorias service.CategoriaService
	svc        service.InventarioService
}

func NewInventarioHandler(categorias service.CategoriaService, svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{categorias: categorias, svc: svc}
}

// ── Categorias ───────────────────────────────────────────────────────────────

// ListarCategorias GET /api/inventario/categorias
func (h *InventarioHandler) ListarCategorias(c *gin.Context) {
	resp, err := h.categorias.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ObtenerCategoria(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.categorias.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) CrearCategoria(c *gin.Context) {
	var req dto.CategoriaEquipoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.categorias.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) ActualizarCategoria(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoriaEquipoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.categorias.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarCategoria DELETE /api/inventario/categorias/:id. 409 while equipment uses it.
func (h *InventarioHandler) EliminarCategoria(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.categorias.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Equipos ──────────────────────────────────────────────────────────────────

func (h *InventarioHandler) ListarEquipos(c *gin.Context) {
	var f dto.EquipoFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.ListarEquipos(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ObtenerEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerEquipo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) CrearEquipo(c *gin.Context) {
	var req dto.CrearEquipoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearEquipo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) ActualizarEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarEquipoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEquipo(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) EliminarEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarEquipo(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SubirFoto POST /api/inventario/equipos/:id/foto (multipart "foto")
func (h *InventarioHandler) SubirFoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fh, ok := formFile(c, "foto")
	if !ok {
		return
	}
	resp, err := h.svc.SubirFotoEquipo(c.Request.Context(), id, fh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Mantenimientos ───────────────────────────────────────────────────────────

func (h *InventarioHandler) ListarMantenimientos(c *gin.Context) {
	var f dto.MantenimientoFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.ListarMantenimientos(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ObtenerMantenimiento(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerMantenimiento(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearMantenimiento POST /api/inventario/mantenimientos. EnProceso moves the
// equipment to EnMantenimiento.
func (h *InventarioHandler) CrearMantenimiento(c *gin.Context) {
	var req dto.CrearMantenimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearMantenimiento(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) ActualizarMantenimiento(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarMantenimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarMantenimiento(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) EliminarMantenimiento(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarMantenimiento(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
