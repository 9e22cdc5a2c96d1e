package dto

import "github.com/shopspring/decimal"

// ─── Categorias ──────────────────────────────────────────────────────────────

type CategoriaEquipoRequest struct {
	NombreCategoria string  `json:"nombre_categoria" validate:"required,min=2,max=100"`
	Descripcion     *string `json:"descripcion"      validate:"omitempty,max=1000"`
}

type CategoriaEquipoResponse struct {
	ID              string  `json:"id"`
	NombreCategoria string  `json:"nombre_categoria"`
	Descripcion     *string `json:"descripcion"`
}

// ─── Equipos ─────────────────────────────────────────────────────────────────

type EquipoFilter struct {
	IDCategoria string `form:"id_categoria" validate:"omitempty,uuid"`
	Estado      string `form:"estado"       validate:"omitempty,oneof=Operativo EnMantenimiento FueraDeServicio"`
}

type CrearEquipoRequest struct {
	IDCategoria  string           `json:"id_categoria"  validate:"required,uuid"`
	NombreEquipo string           `json:"nombre_equipo" validate:"required,min=2,max=100"`
	Marca        *string          `json:"marca"         validate:"omitempty,max=100"`
	Modelo       *string          `json:"modelo"        validate:"omitempty,max=100"`
	NumeroSerie  *string          `json:"numero_serie"  validate:"omitempty,max=100"`
	Descripcion  *string          `json:"descripcion"   validate:"omitempty,max=2000"`
	FechaCompra  *string          `json:"fecha_compra"  validate:"omitempty,datetime=2006-01-02"`
	Costo        *decimal.Decimal `json:"costo"`
	Ubicacion    *string          `json:"ubicacion"     validate:"omitempty,max=100"`
	Estado       string           `json:"estado"        validate:"omitempty,oneof=Operativo EnMantenimiento FueraDeServicio"`
}

type ActualizarEquipoRequest struct {
	IDCategoria  *string          `json:"id_categoria"  validate:"omitempty,uuid"`
	NombreEquipo *string          `json:"nombre_equipo" validate:"omitempty,min=2,max=100"`
	Marca        *string          `json:"marca"         validate:"omitempty,max=100"`
	Modelo       *string          `json:"modelo"        validate:"omitempty,max=100"`
	NumeroSerie  *string          `json:"numero_serie"  validate:"omitempty,max=100"`
	Descripcion  *string          `json:"descripcion"   validate:"omitempty,max=2000"`
	FechaCompra  *string          `json:"fecha_compra"  validate:"omitempty,datetime=2006-01-02"`
	Costo        *decimal.Decimal `json:"costo"`
	Ubicacion    *string          `json:"ubicacion"     validate:"omitempty,max=100"`
	Estado       *string          `json:"estado"        validate:"omitempty,oneof=Operativo EnMantenimiento FueraDeServicio"`
}

type EquipoResponse struct {
	ID              string           `json:"id"`
	IDCategoria     string           `json:"id_categoria"`
	NombreCategoria string           `json:"nombre_categoria,omitempty"`
	NombreEquipo    string           `json:"nombre_equipo"`
	Marca           *string          `json:"marca"`
	Modelo          *string          `json:"modelo"`
	NumeroSerie     *string          `json:"numero_serie"`
	Descripcion     *string          `json:"descripcion"`
	FechaCompra     *string          `json:"fecha_compra"`
	Costo           *decimal.Decimal `json:"costo"`
	Ubicacion       *string          `json:"ubicacion"`
	Estado          string           `json:"estado"`
	Foto            *string          `json:"foto"`
}

// ─── Mantenimientos ──────────────────────────────────────────────────────────

type MantenimientoFilter struct {
	IDEquipo string `form:"id_equipo" validate:"omitempty,uuid"`
	Estado   string `form:"estado"    validate:"omitempty,oneof=Programado EnProceso Completado Cancelado"`
}

type CrearMantenimientoRequest struct {
	IDEquipo             string           `json:"id_equipo"             validate:"required,uuid"`
	TipoMantenimiento    string           `json:"tipo_mantenimiento"    validate:"required,oneof=Preventivo Correctivo"`
	FechaProgramada      string           `json:"fecha_programada"      validate:"required,datetime=2006-01-02"`
	FechaRealizada       *string          `json:"fecha_realizada"       validate:"omitempty,datetime=2006-01-02"`
	DescripcionTrabajo   *string          `json:"descripcion_trabajo"   validate:"omitempty,max=2000"`
	TecnicoResponsable   *string          `json:"tecnico_responsable"   validate:"omitempty,max=100"`
	Costo                *decimal.Decimal `json:"costo"`
	Estado               string           `json:"estado"                validate:"omitempty,oneof=Programado EnProceso Completado Cancelado"`
	ProximoMantenimiento *string          `json:"proximo_mantenimiento" validate:"omitempty,datetime=2006-01-02"`
	Notas                *string          `json:"notas"                 validate:"omitempty,max=2000"`
}

type ActualizarMantenimientoRequest struct {
	TipoMantenimiento    *string          `json:"tipo_mantenimiento"    validate:"omitempty,oneof=Preventivo Correctivo"`
	FechaProgramada      *string          `json:"fecha_programada"      validate:"omitempty,datetime=2006-01-02"`
	FechaRealizada       *string          `json:"fecha_realizada"       validate:"omitempty,datetime=2006-01-02"`
	DescripcionTrabajo   *string          `json:"descripcion_trabajo"   validate:"omitempty,max=2000"`
	TecnicoResponsable   *string          `json:"tecnico_responsable"   validate:"omitempty,max=100"`
	Costo                *decimal.Decimal `json:"costo"`
	Estado               *string          `json:"estado"                validate:"omitempty,oneof=Programado EnProceso Completado Cancelado"`
	ProximoMantenimiento *string          `json:"proximo_mantenimiento" validate:"omitempty,datetime=2006-01-02"`
	Notas                *string          `json:"notas"                 validate:"omitempty,max=2000"`
}

type MantenimientoResponse struct {
	ID                   string           `json:"id"`
	IDEquipo             string           `json:"id_equipo"`
	TipoMantenimiento    string           `json:"tipo_mantenimiento"`
	FechaProgramada      string           `json:"fecha_programada"`
	FechaRealizada       *string          `json:"fecha_realizada"`
	DescripcionTrabajo   *string          `json:"descripcion_trabajo"`
	TecnicoResponsable   *string          `json:"tecnico_responsable"`
	Costo                *decimal.Decimal `json:"costo"`
	Estado               string           `json:"estado"`
	ProximoMantenimiento *string          `json:"proximo_mantenimiento"`
	Notas                *string          `json:"notas"`
}
