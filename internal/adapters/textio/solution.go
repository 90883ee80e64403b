package textio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/teesheet/internal/domain/scheduler"
)

// Solution is a parsed solution file.
type Solution struct {
	Objective int
	Days      [][][]string // day -> group -> golfer ids
}

// WriteSchedule writes a committed schedule.
func WriteSchedule(w io.Writer, s *scheduler.Schedule) error {
	return WriteSolution(w, s.Objective(), s.Days())
}

// WriteSolution writes the objective followed by every day's groups.
func WriteSolution(w io.Writer, objective int, days []scheduler.Day) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, objective)
	for _, d := range days {
		for _, g := range d.Groups {
			fmt.Fprintln(bw, strings.Join(g, " "))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// ReadSolution parses a solution file. Trailing spaces on group lines are
// accepted.
func ReadSolution(r io.Reader) (Solution, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Solution{}, fmt.Errorf("%w: %w", ErrMalformedSolution, err)
		}
		return Solution{}, fmt.Errorf("%w: missing objective", ErrMalformedSolution)
	}
	obj, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return Solution{}, fmt.Errorf("%w: objective %q is not an integer", ErrMalformedSolution, sc.Text())
	}

	sol := Solution{Objective: obj}
	var day [][]string
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			if day != nil {
				sol.Days = append(sol.Days, day)
				day = nil
			}
			continue
		}
		day = append(day, fields)
	}
	if err := sc.Err(); err != nil {
		return Solution{}, fmt.Errorf("%w: %w", ErrMalformedSolution, err)
	}
	if day != nil {
		sol.Days = append(sol.Days, day)
	}
	return sol, nil
}
