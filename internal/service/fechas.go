package service

import (
	"time"

	"gorm.io/datatypes"
)

const layoutFecha = "2006-01-02"

func inicioDelDia(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// parseFecha parses a YYYY-MM-DD string as local midnight in loc.
func parseFecha(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(layoutFecha, s, loc)
	if err != nil {
		return time.Time{}, invalido("Fecha invalida: " + s)
	}
	return t, nil
}

// rangoDias resolves an inclusive [desde, hasta] day range into a half-open
// [from, to) interval. Missing ends default to the last `dias` days.
func rangoDias(desde, hasta string, now time.Time, loc *time.Location, dias int) (time.Time, time.Time, error) {
	to := inicioDelDia(now, loc).AddDate(0, 0, 1)
	if hasta != "" {
		h, err := parseFecha(hasta, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = h.AddDate(0, 0, 1)
	}
	from := to.AddDate(0, 0, -dias)
	if desde != "" {
		d, err := parseFecha(desde, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = d
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, invalido("El rango de fechas es invalido")
	}
	return from, to, nil
}

func formatTS(t time.Time) string { return t.Format(time.RFC3339) }

func formatTSPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTS(*t)
	return &s
}

func formatFecha(d datatypes.Date) string { return time.Time(d).Format(layoutFecha) }

func formatFechaPtr(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := formatFecha(*d)
	return &s
}

// fechaPtr parses an optional YYYY-MM-DD string into a date column value.
func fechaPtr(s *string) (*datatypes.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseFecha(*s, time.UTC)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}
