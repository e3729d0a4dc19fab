package ui

import (
	"github.com/cheggaaa/pb/v3"
)

// Progress is a terminal progress bar sized on the first update
type Progress struct {
	bar *pb.ProgressBar
}

// NewProgress creates a hidden bar until the first update
func NewProgress() *Progress {
	return &Progress{}
}

// Update moves the bar to done of total
func (p *Progress) Update(done, total int) {
	if p.bar == nil {
		p.bar = pb.New(total)
		p.bar.Start()
	}
	p.bar.SetTotal(int64(total))
	p.bar.SetCurrent(int64(done))
}

// Finish stops the bar if it was started
func (p *Progress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
