package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numerology/internal/chart"
	"numerology/internal/feed"
	"numerology/internal/meanings"
)

func clearEnv(t *testing.T) {
	t.Setenv("NUMEROLOGY_LOCALE", "")
	t.Setenv("NUMEROLOGY_SYSTEMS", "")
	t.Setenv("NUMEROLOGY_API_URL", "")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)
	return run(stdin, args...)
}

func run(stdin string, args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func tempDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "cli.db")
}

func decodeViews(t *testing.T, out string) []chartView {
	t.Helper()
	var views []chartView
	require.NoError(t, json.Unmarshal([]byte(out), &views), out)
	return views
}

func figure(v chartView, name string) (figureLine, bool) {
	for _, f := range v.Figures {
		if f.Name == name {
			return f, true
		}
	}
	return figureLine{}, false
}

func TestChartJSON(t *testing.T) {
	out, err := execute(t, "", "chart", "John", "Smith", "1990-01-15", "--json", "--db", tempDB(t), "--systems", "pythagorean,chaldean")
	require.NoError(t, err)

	views := decodeViews(t, out)
	require.Len(t, views, 2)
	assert.Equal(t, "pythagorean", views[0].System)
	assert.True(t, views[0].BirthdateValid)

	lp, ok := figure(views[0], "life_path_number")
	require.True(t, ok)
	assert.Equal(t, "8", lp.Value)
	assert.Equal(t, "Life Path Number", lp.Label)

	active, ok := figure(views[1], "active_number")
	require.True(t, ok)
	assert.Equal(t, "18/9", active.Value)
	assert.NotEmpty(t, views[1].Interpretations)
}

func TestChartPromptsForMissingFields(t *testing.T) {
	out, err := execute(t, "John\nSmith\n\n", "chart", "--db", tempDB(t), "--systems", "pythagorean")
	require.NoError(t, err)

	assert.Contains(t, out, "First name: ")
	assert.Contains(t, out, "Last name: ")
	assert.Contains(t, out, "Birthdate (YYYY-MM-DD, empty to skip): ")
	assert.Contains(t, out, "== Pythagorean ==")
	assert.Contains(t, out, "no valid birthdate")
	assert.Contains(t, out, "Interpretations")
	assert.NotContains(t, out, "Life Path Number")
}

func TestChartLocale(t *testing.T) {
	out, err := execute(t, "", "chart", "John", "Smith", "1990-01-15", "--db", tempDB(t), "--systems", "pythagorean", "--locale", "fr-CA")
	require.NoError(t, err)
	assert.Contains(t, out, "Chemin de vie: Le bâtisseur d'empire")
}

func TestChartInvalidNames(t *testing.T) {
	_, err := execute(t, "", "chart", "123", "!!", "", "--db", tempDB(t), "--systems", "pythagorean")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid names supplied")
}

func TestSaveThenHistory(t *testing.T) {
	db := tempDB(t)
	out, err := execute(t, "", "chart", "Ada", "Lovelace", "1815-12-10", "--save", "--json", "--db", db, "--systems", "all")
	require.NoError(t, err)
	views := decodeViews(t, out)
	require.Len(t, views, 3)
	for _, v := range views {
		assert.NotEmpty(t, v.ChartID)
	}

	out, err = execute(t, "", "history", "--json", "--db", db, "--system", "vedic")
	require.NoError(t, err)
	var list chartList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Lovelace", list.Items[0].LastName)

	out, err = execute(t, "", "history", "--db", db, "-q", "ada")
	require.NoError(t, err)
	assert.Contains(t, out, "3 of 3")
}

func TestSystems(t *testing.T) {
	out, err := execute(t, "", "systems")
	require.NoError(t, err)
	for _, name := range []string{"pythagorean", "chaldean", "vedic"} {
		assert.Contains(t, out, name)
	}
}

func newAPI(t *testing.T) (*httptest.Server, *feed.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cat, err := meanings.LoadEmbedded()
	require.NoError(t, err)

	hub := feed.NewHub(nil)
	router := gin.New()
	router.GET("/ws", feed.WSHandler(hub, nil))
	chart.NewHandler(&chart.Service{Source: cat, Catalog: cat, Feed: hub}).RegisterRoutes(router.Group(""))
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, hub
}

func TestChartRemote(t *testing.T) {
	ts, _ := newAPI(t)

	out, err := execute(t, "", "chart", "John", "Smith", "1990-01-15", "--remote", "--api", ts.URL, "--systems", "chaldean", "--json")
	require.NoError(t, err)
	views := decodeViews(t, out)
	require.Len(t, views, 1)
	assert.Equal(t, "chaldean", views[0].System)

	require.NotEmpty(t, views[0].Figures)
	assert.Equal(t, "first_name", views[0].Figures[0].Name, "figures keep entry order")
	assert.Equal(t, "John", views[0].Figures[0].Value)

	cn, ok := figure(views[0], "compound_number")
	require.True(t, ok)
	assert.Equal(t, "17", cn.Value)
}

func TestWatchPrintsChartEvents(t *testing.T) {
	ts, hub := newAPI(t)

	type result struct {
		out string
		err error
	}
	clearEnv(t)
	done := make(chan result, 1)
	go func() {
		out, err := run("", "watch", "--api", ts.URL, "--count", "1", "--retry=false")
		done <- result{out, err}
	}()

	require.Eventually(t, func() bool { return hub.Stats().WSClients == 1 }, 3*time.Second, 10*time.Millisecond)
	hub.BroadcastJSON(feed.ChartEvent{Type: "other"})
	hub.BroadcastJSON(feed.ChartEvent{Type: feed.EventChartSaved, ChartID: "c-1", System: "vedic", FirstName: "Ada", LastName: "Lovelace"})

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Contains(t, r.out, "Ada Lovelace")
		assert.Contains(t, r.out, "c-1")
		assert.NotContains(t, r.out, "other")
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not return")
	}
}

func TestWatchUDPFeed(t *testing.T) {
	hub := feed.NewHub(nil)
	srv := feed.NewUDPServer("", nil)
	hub.AttachUDP(srv)

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Serve(ctx, conn) }()

	clearEnv(t)
	done := make(chan error, 1)
	var out string
	go func() {
		var err error
		out, err = run("", "watch", "--udp", conn.LocalAddr().String(), "--count", "1", "--retry=false", "--json")
		done <- err
	}()

	require.Eventually(t, func() bool { return hub.Stats().UDPClients == 1 }, 3*time.Second, 10*time.Millisecond)
	hub.BroadcastJSON(feed.ChartEvent{Type: feed.EventChartSaved, ChartID: "u-7", System: "chaldean"})

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.Contains(t, out, `"chart_id":"u-7"`)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not return")
	}
}
