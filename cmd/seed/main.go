// Command seed populates a running catalog service with demo users,
// movies, ratings and reports through its HTTP API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/moviecatalog/catalog/pkg/logger"
)

type seedConfig struct {
	BaseURL       string        `env:"CATALOG_URL" envDefault:"http://localhost:8000"`
	AdminUsername string        `env:"ADMIN_USERNAME"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
	Password      string        `env:"SEED_PASSWORD" envDefault:"seed-password-123"`
	Timeout       time.Duration `env:"SEED_TIMEOUT" envDefault:"2m"`
}

// --------------------------------------------------------------------------
// HTTP helpers
// --------------------------------------------------------------------------

// apiError is a non-2xx response.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

type client struct {
	baseURL string
	http    *http.Client
}

// call sends body as JSON and decodes the "data" member of the response
// into out, when out is non-nil.
func (c *client) call(ctx context.Context, method, path, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return &apiError{Status: resp.StatusCode, Body: string(respBody)}
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return nil
}

type tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// signIn registers username, or logs in when it already exists.
func (c *client) signIn(ctx context.Context, username, password string) (string, error) {
	var registered struct {
		Tokens tokens `json:"tokens"`
	}
	err := c.call(ctx, http.MethodPost, "/accounts/register/", "", map[string]string{
		"username": username,
		"email":    username + "@seed.example.com",
		"password": password,
	}, &registered)
	if err == nil {
		return registered.Tokens.Access, nil
	}

	var apiErr *apiError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		return "", err
	}
	return c.login(ctx, username, password)
}

func (c *client) login(ctx context.Context, username, password string) (string, error) {
	var t tokens
	err := c.call(ctx, http.MethodPost, "/accounts/login/", "", map[string]string{
		"email_or_username": username,
		"password":          password,
	}, &t)
	return t.Access, err
}

// --------------------------------------------------------------------------
// Seed data definitions
// --------------------------------------------------------------------------

type movieDef struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	ReleasedAt      string `json:"released_at"`
	DurationHours   int    `json:"duration_hours"`
	DurationMinutes int    `json:"duration_minutes"`
	Genre           string `json:"genre"`
	Language        string `json:"language"`
}

var movies = []movieDef{
	{"Inception", "A thief enters dreams to plant an idea.", "2010-07-16", 2, 28, "Sci-Fi", "English"},
	{"Spirited Away", "A girl wanders into a world of spirits.", "2001-07-20", 2, 5, "Animation", "Japanese"},
	{"Amélie", "A shy waitress decides to change the lives of those around her.", "2001-04-25", 2, 2, "Comedy", "French"},
	{"Parasite", "A poor family schemes to become employed by a wealthy one.", "2019-05-30", 2, 12, "Thriller", "Korean"},
	{"The Godfather", "The aging patriarch of a crime dynasty hands over control.", "1972-03-24", 2, 55, "Crime", "English"},
}

var seedUsers = []string{"seed_alice", "seed_bob", "seed_carol"}

// --------------------------------------------------------------------------
// main
// --------------------------------------------------------------------------

func main() {
	log := logger.New("catalog-seed", "info")

	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		log.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("seed complete")
}

func run(ctx context.Context, cfg seedConfig, log *slog.Logger) error {
	c := &client{baseURL: cfg.BaseURL, http: &http.Client{Timeout: 10 * time.Second}}

	// 1. Users
	userTokens := make([]string, 0, len(seedUsers))
	for _, username := range seedUsers {
		token, err := c.signIn(ctx, username, cfg.Password)
		if err != nil {
			return fmt.Errorf("sign in %s: %w", username, err)
		}
		userTokens = append(userTokens, token)
		log.Info("user ready", slog.String("username", username))
	}

	// 2. Movies, owned round-robin by the seed users
	movieIDs := make([]string, 0, len(movies))
	for i, m := range movies {
		var created struct {
			ID string `json:"id"`
		}
		if err := c.call(ctx, http.MethodPost, "/movie-create/", userTokens[i%len(userTokens)], m, &created); err != nil {
			return fmt.Errorf("create movie %q: %w", m.Title, err)
		}
		movieIDs = append(movieIDs, created.ID)
		log.Info("movie created", slog.String("title", m.Title), slog.String("id", created.ID))
	}

	// 3. Ratings: every user rates every movie once
	for u, token := range userTokens {
		for i, id := range movieIDs {
			value := float64(1 + (u+i)%5)
			if err := c.call(ctx, http.MethodPost, "/"+id+"/rating-create/", token, map[string]float64{"rating": value}, nil); err != nil {
				log.Warn("rating skipped", slog.String("movie_id", id), slog.String("error", err.Error()))
			}
		}
	}
	log.Info("ratings created", slog.Int("count", len(userTokens)*len(movieIDs)))

	// 4. Reports, moderated when admin credentials are available
	reportIDs := make([]string, 0, len(movieIDs))
	for i, id := range movieIDs[:2] {
		var report struct {
			ID string `json:"id"`
		}
		err := c.call(ctx, http.MethodPost, "/"+id+"/report-create/", userTokens[i], map[string]string{"reason": "spam"}, &report)
		if err != nil {
			log.Warn("report skipped", slog.String("movie_id", id), slog.String("error", err.Error()))
			continue
		}
		reportIDs = append(reportIDs, report.ID)
	}

	if cfg.AdminUsername == "" || len(reportIDs) == 0 {
		return nil
	}
	admin, err := c.login(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("admin login: %w", err)
	}
	if err := c.call(ctx, http.MethodPatch, "/report-approve/"+reportIDs[0]+"/", admin, nil, nil); err != nil {
		return fmt.Errorf("approve report: %w", err)
	}
	if len(reportIDs) > 1 {
		if err := c.call(ctx, http.MethodPatch, "/report-reject/"+reportIDs[1]+"/", admin, nil, nil); err != nil {
			return fmt.Errorf("reject report: %w", err)
		}
	}

	var counts map[string]int
	if err := c.call(ctx, http.MethodGet, "/report-status/", admin, nil, &counts); err != nil {
		return fmt.Errorf("report status: %w", err)
	}
	log.Info("reports moderated",
		slog.Int("approved_count", counts["approved_count"]),
		slog.Int("rejected_count", counts["rejected_count"]),
	)
	return nil
}
