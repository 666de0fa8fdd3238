package publishers

import (
	"context"
	"errors"
	"fmt"
)

type route struct {
	pub   Publisher
	match Matcher
}

// Fanout delivers each event to the publishers whose rules accept its
// exchange.
type Fanout struct {
	routes []route
}

// Delivery counts what happened to one event.
type Delivery struct {
	Delivered int
	Skipped   int
	Failed    int
}

// NewFanout routes every event to each of pubs.
func NewFanout(pubs ...Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		f.Route(p, Matcher{})
	}
	return f
}

// Route adds p, receiving only exchanges accepted by m.
func (f *Fanout) Route(p Publisher, m Matcher) {
	if p != nil {
		f.routes = append(f.routes, route{pub: p, match: m})
	}
}

// Publish sends evt to every matching publisher. Filtered publishers count
// as skipped, not failed.
func (f *Fanout) Publish(ctx context.Context, evt Event) (Delivery, error) {
	var (
		d    Delivery
		errs []error
	)
	if f == nil {
		return d, nil
	}
	for _, r := range f.routes {
		if !r.match.Matches(evt.Exchange) {
			d.Skipped++
			continue
		}
		if err := r.pub.Publish(ctx, evt); err != nil {
			d.Failed++
			errs = append(errs, fmt.Errorf("%s publisher %q: %w", r.pub.Type(), r.pub.ID(), err))
			continue
		}
		d.Delivered++
	}
	return d, errors.Join(errs...)
}

// Size returns the number of routed publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.routes)
}

// Close releases publishers holding client connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, r := range f.routes {
		c, ok := r.pub.(closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher %q: %w", r.pub.Type(), r.pub.ID(), err))
		}
	}
	return errors.Join(errs...)
}
