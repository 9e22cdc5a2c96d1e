package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gimnasio/internal/dto"
	"gimnasio/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	hojaAsistencias = "Asistencias"
	hojaResumen     = "Resumen"
	layoutCelda     = "2006-01-02 15:04"
)

// ReporteService builds downloadable attendance reports.
type ReporteService interface {
	// ExportarAsistencias returns an .xlsx workbook for the inclusive day
	// range, with the filename to suggest to the client.
	ExportarAsistencias(ctx context.Context, r dto.RangoFechas) (*bytes.Buffer, string, error)
}

type reporteService struct {
	asistencias repository.AsistenciaRepository
	loc         *time.Location
	now         func() time.Time
}

func NewReporteService(asistencias repository.AsistenciaRepository, loc *time.Location) ReporteService {
	return &reporteService{asistencias: asistencias, loc: loc, now: time.Now}
}

func (s *reporteService) ExportarAsistencias(ctx context.Context, r dto.RangoFechas) (*bytes.Buffer, string, error) {
	desde, hasta, err := rangoDias(r.Desde, r.Hasta, s.now(), s.loc, 30)
	if err != nil {
		return nil, "", err
	}

	rows, _, err := s.asistencias.ListConUsuario(ctx, repository.AsistenciaFilter{Desde: &desde, Hasta: &hasta})
	if err != nil {
		return nil, "", err
	}
	resumen, err := s.asistencias.ResumenPorDia(ctx, desde, hasta, s.loc.String())
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(hojaAsistencias)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	if _, err := f.NewSheet(hojaResumen); err != nil {
		return nil, "", err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E78"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	// Asistencias
	encabezado := []any{"Usuario", "Nombre", "Apellido", "Entrada", "Salida", "Duracion (min)", "Tipo", "Estado", "Notas"}
	if err := f.SetSheetRow(hojaAsistencias, "A1", &encabezado); err != nil {
		return nil, "", err
	}
	_ = f.SetCellStyle(hojaAsistencias, "A1", "I1", headerStyle)
	_ = f.SetColWidth(hojaAsistencias, "A", "C", 18)
	_ = f.SetColWidth(hojaAsistencias, "D", "E", 18)
	_ = f.SetColWidth(hojaAsistencias, "I", "I", 40)

	for i, row := range rows {
		salida, duracion, notas := "", "", ""
		if row.FechaSalida != nil {
			salida = row.FechaSalida.In(s.loc).Format(layoutCelda)
		}
		if row.DuracionMinutos != nil {
			duracion = fmt.Sprint(*row.DuracionMinutos)
		}
		if row.Notas != nil {
			notas = *row.Notas
		}
		values := []any{
			row.Username,
			row.Nombre,
			row.Apellido,
			row.FechaEntrada.In(s.loc).Format(layoutCelda),
			salida,
			duracion,
			row.TipoAcceso,
			row.EstadoAcceso,
			notas,
		}
		celda, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(hojaAsistencias, celda, &values); err != nil {
			return nil, "", err
		}
	}

	// Resumen
	encabezado = []any{"Fecha", "Total asistencias", "Usuarios unicos"}
	if err := f.SetSheetRow(hojaResumen, "A1", &encabezado); err != nil {
		return nil, "", err
	}
	_ = f.SetCellStyle(hojaResumen, "A1", "C1", headerStyle)
	_ = f.SetColWidth(hojaResumen, "A", "C", 20)
	for i, d := range resumen {
		values := []any{d.Fecha.Format(layoutFecha), d.TotalAsistencias, d.UsuariosUnicos}
		celda, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(hojaResumen, celda, &values); err != nil {
			return nil, "", err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		log.Error().Err(err).Msg("no se pudo generar el Excel de asistencias")
		return nil, "", err
	}

	filename := fmt.Sprintf("asistencias_%s_%s.xlsx",
		desde.Format(layoutFecha), hasta.AddDate(0, 0, -1).Format(layoutFecha))
	return buf, filename, nil
}
