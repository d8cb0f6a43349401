package main

import (
	"fmt"
	"sync"

	"github.com/fatih/color"

	"github.com/harunnryd/nexus/pkg/transcript"
)

// renderer prints transcript mutations as they happen: user turns as a single
// line, assistant turns incrementally as deltas land, sources once at the end.
type renderer struct {
	mu             sync.Mutex
	printedLen     map[int]int
	printedHeader  map[int]bool
	printedSources map[int]bool
	needNewline    bool
	userColor      *color.Color
	replyColor     *color.Color
	sourceColor    *color.Color
}

func newRenderer() *renderer {
	return &renderer{
		printedLen:     make(map[int]int),
		printedHeader:  make(map[int]bool),
		printedSources: make(map[int]bool),
		userColor:      color.New(color.FgHiBlue),
		replyColor:     color.New(color.FgHiWhite),
		sourceColor:    color.New(color.FgHiBlack),
	}
}

func (r *renderer) onChange(store *transcript.Store) func(int) {
	return func(idx int) {
		e, err := store.Entry(idx)
		if err != nil {
			return
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		switch e.Role {
		case transcript.RoleUser:
			r.breakLine()
			if !r.printedHeader[idx] {
				r.printedHeader[idx] = true
				r.userColor.Printf("you: %s\n", e.Text)
			}
		case transcript.RoleAssistant:
			r.renderReply(idx, e)
		}
	}
}

func (r *renderer) renderReply(idx int, e transcript.Entry) {
	if !r.printedHeader[idx] {
		r.printedHeader[idx] = true
		r.replyColor.Print("nexus: ")
	}
	done := r.printedLen[idx]
	if len(e.Text) >= done {
		r.replyColor.Print(e.Text[done:])
	} else {
		// The authoritative final text diverged from the accumulated
		// deltas; reprint it in full on a fresh line.
		fmt.Println()
		r.replyColor.Printf("nexus: %s", e.Text)
	}
	r.printedLen[idx] = len(e.Text)
	r.needNewline = true

	if len(e.Sources) > 0 && !r.printedSources[idx] {
		r.printedSources[idx] = true
		r.breakLine()
		for _, s := range e.Sources {
			r.sourceColor.Printf("  [%s] %s\n", s.Domain, s.Title)
		}
	}
}

func (r *renderer) breakLine() {
	if r.needNewline {
		fmt.Println()
		r.needNewline = false
	}
}
