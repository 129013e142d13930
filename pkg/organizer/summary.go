package organizer

import (
	"fmt"
	"io"

	"github.com/gavinmcnair/datesort/pkg/media"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var summaryStates = []State{StatePlaced, StatePlanned, StateDuplicate, StateFailed, StateSkipped}

// Summary tallies the outcomes of one run.
type Summary struct {
	// Ignored counts entries that are not regular files.
	Ignored  int
	Outcomes []Outcome
	counts   map[State]map[media.Kind]int
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{counts: make(map[State]map[media.Kind]int)}
}

// Add records an outcome.
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	byKind, ok := s.counts[o.State]
	if !ok {
		byKind = make(map[media.Kind]int)
		s.counts[o.State] = byKind
	}
	byKind[o.Entry.Kind]++
}

// Count returns the number of files that ended in state.
func (s *Summary) Count(state State) int {
	total := 0
	for _, n := range s.counts[state] {
		total += n
	}
	return total
}

// CountKind returns the number of files of kind that ended in state.
func (s *Summary) CountKind(state State, kind media.Kind) int {
	return s.counts[state][kind]
}

// Render writes the summary as a table.
func (s *Summary) Render(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Outcome", "Images", "Videos", "Other", "Total"})

	for _, state := range summaryStates {
		total := s.Count(state)
		if total == 0 {
			continue
		}
		tw.AppendRow(table.Row{
			string(state),
			s.CountKind(state, media.Image),
			s.CountKind(state, media.Video),
			s.CountKind(state, media.Unsupported),
			total,
		})
	}
	tw.AppendFooter(table.Row{"files", "", "", "", len(s.Outcomes)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	tw.Render()

	if s.Ignored > 0 {
		fmt.Fprintf(w, "%d non-regular entries ignored\n", s.Ignored)
	}
}
