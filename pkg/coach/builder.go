package coach

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRows is returned by [Build] when the row sequence is empty.
	// An empty load is fatal: no registry or connections are produced.
	ErrNoRows = errors.New("no rows supplied")

	// ErrMalformedRow is returned by [Build] when a row is missing a required
	// field. The input provider is expected to filter these out; if one slips
	// through, the whole load fails rather than silently skipping the row,
	// which would leave an inconsistent graph.
	ErrMalformedRow = errors.New("malformed row")
)

// Build constructs the coach registry and connection list from rows.
//
// Rows are processed in order. Each row ensures a Coach exists for both the
// head coach and the coordinator, appends a head-coach stint to the head
// coach (deduplicated on season and team, first occurrence wins), appends the
// row's role to the coordinator verbatim (never deduplicated: a coach holding
// the same coordinator title under two head coaches in one season keeps both
// entries, mirroring the raw rows), records the relationship in both name
// sets, and emits exactly one Connection.
//
// Build is pure: it mutates nothing outside its return values, and a failed
// build returns no partial state.
func Build(rows []Row) (Registry, []Connection, error) {
	if len(rows) == 0 {
		return nil, nil, ErrNoRows
	}

	reg := make(Registry)
	conns := make([]Connection, 0, len(rows))

	for i, row := range rows {
		if err := validateRow(row); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}

		head := reg.ensure(row.HeadCoach)
		coord := reg.ensure(row.Coordinator)
		record := fmt.Sprintf("%d-%d-%d", row.Wins, row.Losses, row.Ties)

		if !head.hasRole(row.Season, row.Team, RoleHeadCoach) {
			head.Roles = append(head.Roles, Role{
				Season: row.Season,
				Team:   row.Team,
				Title:  RoleHeadCoach,
				Record: record,
			})
		}

		coord.Roles = append(coord.Roles, Role{
			Season: row.Season,
			Team:   row.Team,
			Title:  row.Role,
			Record: record,
		})

		head.Coordinators[row.Coordinator] = struct{}{}
		coord.HeadCoaches[row.HeadCoach] = struct{}{}

		conns = append(conns, Connection{
			HeadCoach:   row.HeadCoach,
			Coordinator: row.Coordinator,
			Season:      row.Season,
			Team:        row.Team,
		})
	}

	return reg, conns, nil
}

func validateRow(row Row) error {
	switch {
	case row.HeadCoach == "":
		return fmt.Errorf("%w: missing head coach", ErrMalformedRow)
	case row.Coordinator == "":
		return fmt.Errorf("%w: missing coordinator", ErrMalformedRow)
	case row.Role == "":
		return fmt.Errorf("%w: missing role", ErrMalformedRow)
	case row.Team == "":
		return fmt.Errorf("%w: missing team", ErrMalformedRow)
	case row.Season == 0:
		return fmt.Errorf("%w: missing season", ErrMalformedRow)
	}
	return nil
}
