package date

import "fmt"

// Range is a span of days, both bounds included. A zero bound leaves that
// side of the range open.
type Range struct{ From, To Date }

// NewRange returns the calendar period of kind p containing d.
func NewRange(d Date, p Period) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// Contains reports whether d is within the range.
func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	return r.To.IsZero() || !d.After(r.To)
}

// Identifier names the range in file names and titles: the day, ISO week,
// month, quarter or year it covers when it is a calendar period, its bounds
// otherwise.
func (r Range) Identifier() string {
	switch {
	case r.From.IsZero() && r.To.IsZero():
		return string(All)
	case r.To.IsZero():
		return "since-" + r.From.String()
	case r.From.IsZero():
		return "until-" + r.To.String()
	}
	for _, p := range []Period{Daily, Weekly, Monthly, Quarterly, Yearly} {
		if NewRange(r.From, p) != r {
			continue
		}
		switch p {
		case Daily:
			return r.From.String()
		case Weekly:
			year, week := r.From.ISOWeek()
			return fmt.Sprintf("%d-W%02d", year, week)
		case Monthly:
			return r.From.Format("2006-01")
		case Quarterly:
			return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
		default:
			return r.From.Format("2006")
		}
	}
	return fmt.Sprintf("%s_%s", r.From, r.To)
}
