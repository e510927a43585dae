package submission

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"collectivecanvas/pkg/engine/geom"
)

// Deduper remembers which submission IDs have already been handled.
type Deduper struct {
	seen mapset.Set[string]
}

// NewDeduper creates an empty deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: mapset.New[string]()}
}

// Seen reports whether id was handled before and marks it handled.
func (d *Deduper) Seen(id string) bool {
	if d.seen.Has(id) {
		return true
	}
	d.seen.Put(id)
	return false
}

// Has reports whether id was handled before without marking it.
func (d *Deduper) Has(id string) bool {
	return d.seen.Has(id)
}

// Len returns the number of remembered IDs.
func (d *Deduper) Len() int {
	return d.seen.Size()
}

// Reset forgets every ID.
func (d *Deduper) Reset() {
	d.seen = mapset.New[string]()
}

type pending struct {
	sub Submission
	at  time.Time
}

// Queue is the FIFO between the intake goroutines and the frame driver.
// Entries become ready once they have waited for the settle delay.
type Queue struct {
	mu    sync.Mutex
	items *queue.Queue[pending]
	size  int
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{items: queue.New[pending]()}
}

// Push appends s, received at the given time.
func (q *Queue) Push(s Submission, at time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.Enqueue(pending{sub: s, at: at})
	q.size++
}

// Len returns the number of queued submissions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// DrainReady removes and returns, in arrival order, the submissions that
// were pushed at least settle before now.
func (q *Queue) DrainReady(now time.Time, settle time.Duration) []Submission {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Submission
	for !q.items.Empty() {
		head := q.items.Peek()
		if now.Sub(head.at) < settle {
			break
		}
		q.items.Dequeue()
		q.size--
		out = append(out, head.sub)
	}
	return out
}

// Clear drops every queued submission.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = queue.New[pending]()
	q.size = 0
}

var canvasWords = []string{"art", "flow", "wave", "bloom", "spark", "dream", "glow", "dance"}

// NewCanvasID returns a short human-friendly canvas name such as "bloom07".
func NewCanvasID(rng *rand.Rand) string {
	word := canvasWords[rng.Intn(len(canvasWords))]
	n := rng.Intn(100)
	if n < 10 {
		return word + "0" + strconv.Itoa(n)
	}
	return word + strconv.Itoa(n)
}

// Palette is the set of colours participants pick from.
var Palette = []geom.RGB{
	geom.MustParseHex("#FF6B6B"), geom.MustParseHex("#4ECDC4"), geom.MustParseHex("#45B7D1"),
	geom.MustParseHex("#96CEB4"), geom.MustParseHex("#FFEAA7"), geom.MustParseHex("#DDA0DD"),
	geom.MustParseHex("#98D8C8"), geom.MustParseHex("#F7DC6F"), geom.MustParseHex("#BB8FCE"),
	geom.MustParseHex("#85C1E9"), geom.MustParseHex("#F8C471"), geom.MustParseHex("#82E0AA"),
	geom.MustParseHex("#F1948A"), geom.MustParseHex("#85C1E9"), geom.MustParseHex("#F4D03F"),
	geom.MustParseHex("#AED6F1"), geom.MustParseHex("#A9DFBF"), geom.MustParseHex("#F5B7B1"),
	geom.MustParseHex("#D7BDE2"), geom.MustParseHex("#A3E4D7"), geom.MustParseHex("#FAD7A0"),
	geom.MustParseHex("#D5A6BD"), geom.MustParseHex("#A9CCE3"), geom.MustParseHex("#ABEBC6"),
}
