// Package textio reads scheduling inputs and writes schedules as text.
//
// Instance files hold three whitespace separated integers: the number of
// groups, the group size and the number of days. Golfers are numbered
// 0..groups*size-1.
//
// Roster files are YAML:
//
//	golfers: [alice, bob, carol, dave]
//	group_size: 2
//	days: 3
//	seed: 7        # optional
//	strict: false  # optional
//
// Solutions start with the objective on its own line, followed by one line
// per group listing golfer ids separated by spaces. Every day ends with a
// blank line.
package textio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/teesheet/internal/domain/roster"
)

// Instance is the numbered problem shape: groups × size golfers over days.
type Instance struct {
	Groups    int
	GroupSize int
	Days      int
}

// Roster builds the numbered roster of the instance.
func (i Instance) Roster() (*roster.Roster, error) {
	return roster.Numbered(i.Groups, i.GroupSize, i.Days)
}

// ReadInstance parses an instance file. Anything after the third integer is
// ignored.
func ReadInstance(r io.Reader) (Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var vals [3]int
	names := [3]string{"groups", "group size", "days"}
	for i := range vals {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return Instance{}, fmt.Errorf("%w: %w", ErrMalformedInstance, err)
			}
			return Instance{}, fmt.Errorf("%w: missing %s", ErrMalformedInstance, names[i])
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return Instance{}, fmt.Errorf("%w: %s %q is not an integer", ErrMalformedInstance, names[i], sc.Text())
		}
		vals[i] = v
	}

	return Instance{Groups: vals[0], GroupSize: vals[1], Days: vals[2]}, nil
}

// WriteInstance writes i in the format ReadInstance accepts.
func WriteInstance(w io.Writer, i Instance) error {
	_, err := fmt.Fprintf(w, "%d %d %d\n", i.Groups, i.GroupSize, i.Days)
	return err
}
