package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

// Entry records one executed (or attempted) trade.
type Entry struct {
	Time       string  `json:"time"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Amount     float64 `json:"amount"`
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
	DecisionID string  `json:"decision_id"`
	Executed   bool    `json:"executed"`
	Reason     string  `json:"reason"`
}

// DecisionEntry records every decision, executed or not; this is the
// append-only audit trail of the tick loop.
type DecisionEntry struct {
	Time           string  `json:"time"`
	Symbol         string  `json:"symbol"`
	Action         string  `json:"action"`
	Confidence     float64 `json:"confidence"`
	Price          float64 `json:"price"`
	PredictedPrice float64 `json:"predicted_price"`
	Amount         float64 `json:"amount,omitempty"`
	Reason         string  `json:"reason"`
	DecisionID     string  `json:"decision_id"`
}

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(logDir(), t.UTC().Format("2006-01-02")+".txt")
}

func decisionsFilepath(t time.Time) string {
	return filepath.Join(logDir(), "decisions", t.UTC().Format("2006-01-02")+".txt")
}

func Append(e Entry) error {
	now := time.Now().UTC()
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendJSON(dailyFilepath(now), e)
}

func AppendDecision(e DecisionEntry) error {
	now := time.Now().UTC()
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendJSON(decisionsFilepath(now), e)
}

func appendJSON(path string, v any) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips log files older than retentionDays.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
