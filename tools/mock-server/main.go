// Package main implements a mock Primo VE server for local development.
// It serves deterministic pnxs search responses and a fake random-word API
// so the CLI and server can run without touching a real library.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"time"
)

// corpusWords feed both the fake word API and generated record titles.
var corpusWords = []string{
	"archive", "botany", "cipher", "dynamo", "estuary", "fresco",
	"glacier", "harbor", "isotope", "jubilee", "kinship", "lantern",
	"meridian", "nocturne", "obelisk", "prairie", "quarry", "rhapsody",
	"saffron", "tundra", "umbra", "vellum", "wharf", "zephyr",
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /primaws/rest/pub/pnxs", searchHandler(logger))
	mux.HandleFunc("GET /api", wordHandler(logger))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Primo server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// searchHandler generates deterministic docs keyed on (query, offset) so
// the same request always yields the same record IDs, which exercises the
// pool's dedup path under repeated queries.
func searchHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		offset := atoiDefault(r.URL.Query().Get("offset"), 0)
		limit := atoiDefault(r.URL.Query().Get("limit"), 50)
		facet := r.URL.Query().Get("qInclude")

		seed := fnv.New64a()
		//nolint:errcheck // hash writes cannot fail
		seed.Write([]byte(q))

		docs := make([]map[string]any, 0, limit)
		for i := range limit {
			id := fmt.Sprintf("alma%d", seed.Sum64()%1_000_000+uint64(offset+i))
			title := fmt.Sprintf("%s and %s",
				corpusWords[(offset+i)%len(corpusWords)],
				corpusWords[(offset+i*7)%len(corpusWords)],
			)
			rtype := "book"
			if facet != "" {
				rtype = facet
			}
			docs = append(docs, map[string]any{
				"pnx": map[string]any{
					"control": map[string]any{"recordid": []string{id}},
					"display": map[string]any{
						"title":        []string{title},
						"creator":      []string{"Mock, Author"},
						"type":         []string{rtype},
						"creationdate": []string{"2001"},
					},
				},
			})
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{"docs": docs})
		logger.Info("search", "query", q, "offset", offset, "limit", limit, "returned", len(docs))
	}
}

func wordHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := atoiDefault(r.URL.Query().Get("words"), 10)

		out := make([]string, 0, n)
		for range n {
			out = append(out, corpusWords[rand.IntN(len(corpusWords))])
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(out)
		logger.Info("words", "count", n)
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return def
	}
	return v
}
