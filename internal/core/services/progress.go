package services

import (
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	progressStepUnknown = 50 << 20
	progressMinInterval = 5 * time.Second
)

// progressWriter counts bytes written and logs download progress. It keeps
// the first write error so callers can tell disk failures from read failures.
type progressWriter struct {
	w       io.Writer
	total   int64
	written int64
	nextLog int64
	lastLog time.Time
	err     error
	started time.Time
}

func newProgressWriter(w io.Writer, total int64) *progressWriter {
	pw := &progressWriter{w: w, total: total, started: time.Now()}
	pw.nextLog = pw.step()
	return pw
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if err != nil {
		p.err = err
		return n, err
	}
	if p.written >= p.nextLog && time.Since(p.lastLog) >= progressMinInterval {
		p.report()
	}
	for p.written >= p.nextLog {
		p.nextLog += p.step()
	}
	return n, nil
}

func (p *progressWriter) step() int64 {
	if p.total > 0 {
		if s := p.total / 10; s > 0 {
			return s
		}
		return 1
	}
	return progressStepUnknown
}

func (p *progressWriter) report() {
	p.lastLog = time.Now()
	fields := log.Fields{
		"written":    humanBytes(p.written),
		"elapsed_ms": time.Since(p.started).Milliseconds(),
	}
	if p.total > 0 {
		fields["expected"] = humanBytes(p.total)
		fields["percent"] = fmt.Sprintf("%.0f%%", float64(p.written)/float64(p.total)*100)
	}
	log.WithFields(fields).Info("download progress")
}

func humanBytes(n int64) string {
	if n <= 0 {
		return "unknown"
	}
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
