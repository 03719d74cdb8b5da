package allocation

import "fmt"

const (
	// FirstYear and LastYear bound the covered periods.
	FirstYear = 2003
	LastYear  = 2018

	// ReferenceSession is the Congress whose district map anchors the
	// county allocation. All crosswalks relate later maps back to it.
	ReferenceSession = 108
)

// sessionByYear is the fixed two-calendar-years-per-Congress table.
var sessionByYear = map[int]int{
	2003: 108, 2004: 108,
	2005: 109, 2006: 109,
	2007: 110, 2008: 110,
	2009: 111, 2010: 111,
	2011: 112, 2012: 112,
	2013: 113, 2014: 113,
	2015: 114, 2016: 114,
	2017: 115, 2018: 115,
}

// SessionForYear maps a calendar year to the overlapping Congress. Years
// outside 2003-2018 are a caller configuration error, never coerced.
func SessionForYear(year int) (int, error) {
	s, ok := sessionByYear[year]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRangePeriod, year)
	}
	return s, nil
}

// Tag stamps each employment row with the session overlapping its year.
func Tag(rows []Employment) ([]Employment, error) {
	out := make([]Employment, len(rows))
	for i, row := range rows {
		s, err := SessionForYear(row.Year)
		if err != nil {
			return nil, err
		}
		row.Session = s
		out[i] = row
	}
	return out, nil
}
