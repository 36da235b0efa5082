package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"numerology/internal/chart"
	"numerology/internal/feed"
	"numerology/internal/numerology"
	"numerology/pkg/database"
	"numerology/pkg/models"
)

func newSystemsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List the numbering systems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			type info struct {
				Name        string `json:"name"`
				Title       string `json:"title"`
				Description string `json:"description"`
			}
			var out []info
			for _, v := range numerology.Systems() {
				out = append(out, info{Name: v.Name, Title: v.Title, Description: v.Description})
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range out {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Title, s.Description)
			}
			return tw.Flush()
		},
	}
}

type historyOpts struct {
	q, system     string
	limit, offset int
	remote        bool
}

type chartList struct {
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Items  []models.Chart `json:"items"`
}

func newHistoryCmd(a *app) *cobra.Command {
	o := &historyOpts{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var (
				list chartList
				err  error
			)
			if o.remote {
				list, err = a.remoteHistory(ctx, o)
			} else {
				list, err = a.localHistory(ctx, o)
			}
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			printHistory(cmd.OutOrStdout(), list)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.q, "query", "q", "", "match first or last name")
	f.StringVar(&o.system, "system", "", "only this system")
	f.IntVar(&o.limit, "limit", 20, "page size")
	f.IntVar(&o.offset, "offset", 0, "offset")
	f.BoolVar(&o.remote, "remote", false, "query the API server")
	return cmd
}

func (a *app) localHistory(ctx context.Context, o *historyOpts) (chartList, error) {
	db, err := database.OpenAndMigrate(database.Config{Path: a.cfg.DBPath})
	if err != nil {
		return chartList{}, err
	}
	defer db.Close()

	repo := chart.NewRepo(db)
	q := chart.ListQuery{Q: o.q, System: o.system, Limit: o.limit, Offset: o.offset}
	total, err := repo.Count(ctx, q)
	if err != nil {
		return chartList{}, err
	}
	items, err := repo.List(ctx, q)
	if err != nil {
		return chartList{}, err
	}
	return chartList{Total: total, Limit: o.limit, Offset: o.offset, Items: items}, nil
}

func (a *app) remoteHistory(ctx context.Context, o *historyOpts) (chartList, error) {
	u, err := url.Parse(a.cfg.APIURL + "/charts")
	if err != nil {
		return chartList{}, fmt.Errorf("invalid base url: %w", err)
	}
	qv := u.Query()
	if o.q != "" {
		qv.Set("q", o.q)
	}
	if o.system != "" {
		qv.Set("system", o.system)
	}
	qv.Set("limit", strconv.Itoa(o.limit))
	qv.Set("offset", strconv.Itoa(o.offset))
	u.RawQuery = qv.Encode()

	client := &http.Client{Timeout: 15 * time.Second}
	var list chartList
	if err := doJSON(ctx, client, http.MethodGet, u.String(), nil, &list); err != nil {
		return chartList{}, err
	}
	return list, nil
}

func printHistory(w io.Writer, list chartList) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSYSTEM\tNAME\tBIRTHDATE\tCREATED")
	for _, c := range list.Items {
		bd := c.Birthdate
		if bd == "" {
			bd = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\n",
			c.ID, c.System, c.FirstName, c.LastName, bd, c.CreatedAt.Local().Format(time.DateTime))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d of %d\n", len(list.Items), list.Total)
}

type watchOpts struct {
	tcp   string
	udp   string
	count int
	retry bool
}

func newWatchCmd(a *app) *cobra.Command {
	o := &watchOpts{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the live feed of saved charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return a.watch(ctx, cmd.OutOrStdout(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.tcp, "tcp", "", "TCP feed address (default: websocket on the API host)")
	f.StringVar(&o.udp, "udp", "", "UDP feed address")
	f.IntVar(&o.count, "count", 0, "exit after this many chart events")
	f.BoolVar(&o.retry, "retry", true, "reconnect when the feed drops")
	return cmd
}

func (a *app) watch(ctx context.Context, w io.Writer, o *watchOpts) error {
	seen := 0
	for {
		err := a.watchOnce(ctx, w, o, &seen)
		if err == nil || ctx.Err() != nil {
			return nil
		}
		if !o.retry {
			return err
		}
		a.logger.Warn("feed disconnected", zap.Error(err))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}

// watchOnce returns nil once the requested number of events was printed.
func (a *app) watchOnce(ctx context.Context, w io.Writer, o *watchOpts, seen *int) error {
	var (
		next lineSource
		stop func()
		err  error
	)
	switch {
	case o.tcp != "":
		next, stop, err = dialTCP(ctx, o.tcp)
	case o.udp != "":
		next, stop, err = dialUDP(ctx, o.udp)
	default:
		var endpoint string
		endpoint, err = websocketURL(a.cfg.APIURL, "/ws")
		if err != nil {
			return err
		}
		next, stop, err = dialWS(ctx, endpoint)
	}
	if err != nil {
		return err
	}
	defer stop()

	for {
		line, err := next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("feed closed")
			}
			return err
		}
		var ev map[string]any
		if err := json.Unmarshal(line, &ev); err != nil {
			fmt.Fprintln(w, string(line))
			continue
		}
		if ev["type"] != feed.EventChartSaved {
			continue
		}
		if a.asJSON {
			fmt.Fprintln(w, string(line))
		} else {
			fmt.Fprintf(w, "%v  %v %v  (%v)  %v\n", ev["at"], ev["first_name"], ev["last_name"], ev["system"], ev["chart_id"])
		}
		*seen++
		if o.count > 0 && *seen >= o.count {
			return nil
		}
	}
}
