package selfplay

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Summary aggregates a batch.
type Summary struct {
	Episodes     int
	Finished     int
	Wins         []int // per seat, finished episodes only
	MeanSteps    float64
	MeanTurns    float64
	MeanTrophies []float64 // per seat, all episodes
	Rejected     int
}

// Summarize aggregates results. Seats are sized by the widest episode.
func Summarize(results []EpisodeResult) Summary {
	s := Summary{Episodes: len(results)}
	seats := 0
	for _, r := range results {
		seats = max(seats, r.Players)
	}
	s.Wins = make([]int, seats)
	s.MeanTrophies = make([]float64, seats)
	if len(results) == 0 {
		return s
	}

	var steps, turns int
	for _, r := range results {
		steps += r.Steps
		turns += r.Turns
		s.Rejected += r.Rejected
		if r.Done {
			s.Finished++
			s.Wins[r.Winner]++
		}
		for seat, n := range r.Rewards {
			s.MeanTrophies[seat] += float64(n)
		}
	}
	n := float64(len(results))
	s.MeanSteps = float64(steps) / n
	s.MeanTurns = float64(turns) / n
	for seat := range s.MeanTrophies {
		s.MeanTrophies[seat] /= n
	}
	return s
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "episodes: %d (%d finished)\n", s.Episodes, s.Finished)
	fmt.Fprintf(&sb, "mean steps: %.1f  mean turns: %.1f  rejected: %d\n", s.MeanSteps, s.MeanTurns, s.Rejected)
	for seat := range s.Wins {
		fmt.Fprintf(&sb, "P%d  wins: %-4d mean trophies: %.2f\n", seat+1, s.Wins[seat], s.MeanTrophies[seat])
	}
	return sb.String()
}

var csvHeader = []string{"episode", "seed", "players", "steps", "turns", "done", "winner", "rejected", "rewards", "duration_ms"}

// WriteCSV writes one row per episode. Rewards are space separated.
func WriteCSV(w io.Writer, results []EpisodeResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}
	for _, r := range results {
		rewards := make([]string, len(r.Rewards))
		for i, n := range r.Rewards {
			rewards[i] = strconv.Itoa(n)
		}
		row := []string{
			strconv.Itoa(r.Episode),
			strconv.FormatUint(r.Seed, 10),
			strconv.Itoa(r.Players),
			strconv.Itoa(r.Steps),
			strconv.Itoa(r.Turns),
			strconv.FormatBool(r.Done),
			strconv.Itoa(r.Winner),
			strconv.Itoa(r.Rejected),
			strings.Join(rewards, " "),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write result row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes results to path, creating parent directories.
func WriteCSVFile(path string, results []EpisodeResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, results)
}
