package domain

import "time"

// BuildSeatMatrix assembles the client-facing seat grid for a trip, one row
// per physical row in layout order. Statuses are derived for the given
// requester; a seat row missing from the snapshot reads AVAILABLE.
func BuildSeatMatrix(trip Trip, seats []Seat, holderID int64, now time.Time) [][]SeatView {
	byNumber := make(map[string]Seat, len(seats))
	for _, s := range seats {
		if _, ok := byNumber[s.Number]; !ok {
			byNumber[s.Number] = s
		}
	}

	matrix := make([][]SeatView, 0, trip.Rows)

	for r := 0; r < trip.Rows; r++ {
		row := make([]SeatView, 0, trip.SeatsPerRow)
		for c := 1; c <= trip.SeatsPerRow; c++ {
			num := SeatNumber(r, c)

			view := SeatView{
				Number: num,
				Row:    RowLabel(r),
				Column: c,
				Status: StatusAvailable,
			}

			if seat, ok := byNumber[num]; ok {
				view.Status, view.HeldByYou = seat.ViewFor(holderID, now)
			}

			row = append(row, view)
		}
		matrix = append(matrix, row)
	}

	return matrix
}

// CountAvailable counts matrix cells whose derived status is AVAILABLE for
// an anonymous viewer, i.e. seats a new buyer could still take.
func CountAvailable(seats []Seat, now time.Time) int {
	n := 0
	for _, s := range seats {
		if status, _ := s.ViewFor(0, now); status == StatusAvailable {
			n++
		}
	}
	return n
}
