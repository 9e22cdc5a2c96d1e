package handler

import (
	"net/http"

	"gimnasio/internal/dto"
	"gimnasio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ── Usuarios ─────────────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Listar GET /api/usuario
func (h *UsuariosHandler) Listar(c *gin.Context) {
	var f dto.UsuarioFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), f.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener GET /api/usuario/:id
func (h *UsuariosHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorUsername GET /api/usuario/username/:username
func (h *UsuariosHandler) ObtenerPorUsername(c *gin.Context) {
	resp, err := h.svc.ObtenerPorUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear POST /api/usuario
func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar PUT /api/usuario/:id
func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar DELETE /api/usuario/:id
func (h *UsuariosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivar PATCH /api/usuario/:id/reactivar
func (h *UsuariosHandler) Reactivar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Usuario reactivado"})
}

// ListarRoles GET /api/usuario/:id/roles
func (h *UsuariosHandler) ListarRoles(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarRoles(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AsignarRol POST /api/usuario/:id/roles
func (h *UsuariosHandler) AsignarRol(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AsignarRolRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AsignarRol(c.Request.Context(), id, uuid.MustParse(req.IDRol)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": "Rol asignado"})
}

// RemoverRol DELETE /api/usuario/:id/roles/:id_rol
func (h *UsuariosHandler) RemoverRol(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rolID, ok := parseID(c, "id_rol")
	if !ok {
		return
	}
	if err := h.svc.RemoverRol(c.Request.Context(), id, rolID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Clientes ─────────────────────────────────────────────────────────────────

// ObtenerCliente GET /api/cliente/:id_usuario
func (h *UsuariosHandler) ObtenerCliente(c *gin.Context) {
	id, ok := parseID(c, "id_usuario")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerCliente(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarCliente PUT /api/cliente/:id_usuario
func (h *UsuariosHandler) ActualizarCliente(c *gin.Context) {
	id, ok := parseID(c, "id_usuario")
	if !ok {
		return
	}
	var req dto.ClientePerfilRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCliente(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
