package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/course-catalog/api"
	"github.com/irsalhamdi/course-catalog/config"
	"github.com/irsalhamdi/course-catalog/core/user"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
)

const (
	adminEmail = "admin@example.com"
	adminPass  = "admin-password"
)

type TestEnv struct {
	*httptest.Server
	DB *sqlx.DB
}

// NewTestEnv starts a throwaway postgres container, migrates it and serves
// the API against it. The test is skipped when docker is unavailable.
func NewTestEnv(t *testing.T, name string) *TestEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Name:       name + "_" + fmt.Sprint(time.Now().UnixNano()),
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=catalog",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("starting postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("purging postgres: %v", err)
		}
	})
	_ = resource.Expire(300)

	cfg := config.DB{
		User:         "postgres",
		Password:     "postgres",
		Host:         resource.GetHostPort("5432/tcp"),
		Name:         "catalog",
		MaxIdleConns: 2,
		MaxOpenConns: 5,
		DisableTLS:   true,
	}

	var db *sqlx.DB
	err = pool.Retry(func() error {
		var err error
		if db, err = database.Open(cfg); err != nil {
			return err
		}
		return database.StatusCheck(context.Background(), db)
	})
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	if err := user.EnsureAdmin(context.Background(), db, adminEmail, adminPass); err != nil {
		t.Fatalf("creating admin: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	srv := httptest.NewServer(api.APIMux(api.APIConfig{
		Log:                log,
		DB:                 db,
		Session:            scs.New(),
		SlugAttempts:       10,
		CertificateBaseURL: "https://certs.example.com",
	}))
	t.Cleanup(srv.Close)

	return &TestEnv{Server: srv, DB: db}
}

// Client is an HTTP client with its own cookie jar, so each one holds its own
// session.
func (env *TestEnv) Client(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{
		Jar:       jar,
		Transport: env.Server.Client().Transport,
	}
}

// do sends body as JSON, checks the status code and decodes the response
// into out when out is not nil.
func (env *TestEnv) do(t *testing.T, c *http.Client, method, path string, body any, want int, out any) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, env.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")

	w, err := c.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	raw, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if w.StatusCode != want {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, path, want, w.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("%s %s: decoding %s: %v", method, path, raw, err)
		}
	}
}

func (env *TestEnv) signup(t *testing.T, name, email string) *http.Client {
	t.Helper()

	c := env.Client(t)
	in := map[string]string{"name": name, "email": email, "password": "correct-horse-battery"}
	env.do(t, c, http.MethodPost, "/auth/signup", in, http.StatusCreated, nil)
	return c
}

func (env *TestEnv) login(t *testing.T, email, pass string) *http.Client {
	t.Helper()

	c := env.Client(t)
	in := map[string]string{"email": email, "password": pass}
	env.do(t, c, http.MethodPost, "/auth/login", in, http.StatusOK, nil)
	return c
}
