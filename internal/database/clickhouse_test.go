package database

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlshortener/internal/types"
)

type fakeWriter struct {
	mu      sync.Mutex
	batches [][]types.Analytic
	err     error
}

func (w *fakeWriter) WriteClicks(_ context.Context, rows []types.Analytic) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, rows)
	return w.err
}

func (w *fakeWriter) rows() []types.Analytic {
	w.mu.Lock()
	defer w.mu.Unlock()
	var all []types.Analytic
	for _, b := range w.batches {
		all = append(all, b...)
	}
	return all
}

type fakeGeo struct{}

func (fakeGeo) City(ip net.IP) (*geoip2.City, error) {
	if !ip.Equal(net.ParseIP("203.0.113.7")) {
		return nil, errors.New("not in db")
	}
	record := &geoip2.City{}
	record.City.Names = map[string]string{"en": "Kyiv"}
	record.Country.Names = map[string]string{"en": "Ukraine"}
	return record, nil
}

func click(code, ip string) types.ClickEvent {
	return types.ClickEvent{ShortCode: code, Owner: "alice", IP: ip, ClickedAt: time.Now()}
}

func TestAnalytics_FlushesFullBatch(t *testing.T) {
	w := &fakeWriter{}
	a := NewAnalytics(w, nil)
	a.batchSize = 3
	a.flushInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)

	for i := 0; i < 3; i++ {
		a.PushClick(click("abc", "198.51.100.1"))
	}

	assert.Eventually(t, func() bool { return len(w.rows()) == 3 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, unknownLocation, w.rows()[0].Country)
}

func TestAnalytics_FlushesOnTick(t *testing.T) {
	w := &fakeWriter{}
	a := NewAnalytics(w, fakeGeo{})
	a.flushInterval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)

	a.PushClick(click("abc", "203.0.113.7"))

	require.Eventually(t, func() bool { return len(w.rows()) == 1 }, time.Second, 10*time.Millisecond)
	row := w.rows()[0]
	assert.Equal(t, "Ukraine", row.Country)
	assert.Equal(t, "Kyiv", row.City)
	assert.Equal(t, "alice", row.Owner)
}

func TestAnalytics_FlushesPendingOnShutdown(t *testing.T) {
	w := &fakeWriter{}
	a := NewAnalytics(w, nil)
	a.flushInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)
	a.PushClick(click("a", ""))
	a.PushClick(click("b", ""))
	cancel()

	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Len(t, w.rows(), 2)
}

func TestAnalytics_PushAfterStopIsDropped(t *testing.T) {
	a := NewAnalytics(&fakeWriter{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)
	cancel()
	<-a.Done()

	a.PushClick(click("late", ""))
	assert.Empty(t, a.clicks)
}

func TestAnalytics_DropsWhenBufferFull(t *testing.T) {
	a := NewAnalytics(&fakeWriter{}, nil)

	for i := 0; i < clicksBufferSize+10; i++ {
		a.PushClick(click("abc", ""))
	}

	assert.Len(t, a.clicks, clicksBufferSize)
}

func TestAnalytics_LocateUnknown(t *testing.T) {
	a := NewAnalytics(&fakeWriter{}, fakeGeo{})

	country, city := a.locate("not-an-ip")
	assert.Equal(t, unknownLocation, country)
	assert.Equal(t, unknownLocation, city)

	country, city = a.locate("198.51.100.1")
	assert.Equal(t, unknownLocation, country)
	assert.Equal(t, unknownLocation, city)
}
