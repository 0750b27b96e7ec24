package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"cineshop/internal/data"
	"cineshop/internal/token"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newTestApplication() *application {
	return &application{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		models: data.Models{
			Users:  newMockUserStore(),
			Movies: newMockMovieStore(),
			Orders: newMockOrderStore(),
		},
		tokens: token.NewMaker("test-secret", 15*time.Minute, 24*time.Hour),
	}
}

func newTestServer(app *application) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = customHTTPErrorHandler
	e.Use(app.CustomRecover())
	e.Use(app.Authenticate())
	app.routes(e)
	return e
}

// do performs a JSON request against the wired test server. An empty token
// leaves the Authorization header off entirely.
func do(t *testing.T, e *echo.Echo, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	err := json.Unmarshal(rec.Body.Bytes(), &body)
	require.NoError(t, err)
	return body
}

func bodyKeys(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()

	keys := []string{}
	for key := range decodeBody(t, rec) {
		keys = append(keys, key)
	}
	return keys
}

func userPath(id int) string {
	return fmt.Sprintf("/api/users/%d/", id)
}

func moviePath(id int) string {
	return fmt.Sprintf("/api/movies/%d/", id)
}

func orderPath(movieID int) string {
	return fmt.Sprintf("/api/movies/%d/orders/", movieID)
}

// ---- factories, mirroring the fixtures the API was originally tested with ----

func createEmployeeWithToken(t *testing.T, app *application) (*data.User, string) {
	t.Helper()

	birthdate := data.NewDate(1999, time.September, 9)
	user := &data.User{
		Username:    "lucira_buster",
		Email:       "lucira_buster@kenziebuster.com",
		FirstName:   "Lucira",
		LastName:    "Buster",
		Birthdate:   &birthdate,
		IsEmployee:  true,
		IsSuperuser: true,
	}
	err := user.Password.Set("1234")
	require.NoError(t, err)
	require.NoError(t, app.models.Users.Insert(user))

	pair, err := app.tokens.NewPair(user.ID)
	require.NoError(t, err)
	return user, pair.Access
}

func createNonEmployeeWithToken(t *testing.T, app *application) (*data.User, string) {
	t.Helper()

	birthdate := data.NewDate(1999, time.September, 9)
	user := &data.User{
		Username:  "lucira_common",
		Email:     "lucira_common@mail.com",
		FirstName: "Lucira",
		LastName:  "Comum",
		Birthdate: &birthdate,
	}
	err := user.Password.Set("1111")
	require.NoError(t, err)
	require.NoError(t, app.models.Users.Insert(user))

	pair, err := app.tokens.NewPair(user.ID)
	require.NoError(t, err)
	return user, pair.Access
}

func createMovieWithEmployee(t *testing.T, app *application, employee *data.User) *data.Movie {
	t.Helper()

	duration := "110min"
	synopsis := "Jake Green is a hotshot gambler, long on audacity and short on..."
	movie := &data.Movie{
		Title:    "Revolver",
		Duration: &duration,
		Rating:   "R",
		Synopsis: &synopsis,
		UserID:   employee.ID,
		AddedBy:  employee.Email,
	}
	require.NoError(t, app.models.Movies.Insert(movie))
	return movie
}

// ---- in-memory stores ----

type mockUserStore struct {
	seq   int
	users map[int]*data.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[int]*data.User)}
}

func (s *mockUserStore) Insert(user *data.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return data.ErrDuplicateUsername
		}
		if existing.Email == user.Email {
			return data.ErrDuplicateEmail
		}
	}
	s.seq++
	user.ID = s.seq
	user.CreatedAt = time.Now().UTC()
	user.Version = 1

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *mockUserStore) Get(id int) (*data.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, data.ErrNoRecordFound
	}
	found := *user
	return &found, nil
}

func (s *mockUserStore) GetByUsername(username string) (*data.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, data.ErrNoRecordFound
}

func (s *mockUserStore) GetByEmail(email string) (*data.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, data.ErrNoRecordFound
}

func (s *mockUserStore) Update(user *data.User) error {
	current, ok := s.users[user.ID]
	if !ok || current.Version != user.Version {
		return data.ErrEditConflict
	}
	for id, existing := range s.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return data.ErrDuplicateUsername
		}
		if existing.Email == user.Email {
			return data.ErrDuplicateEmail
		}
	}
	user.Version++
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

type mockMovieStore struct {
	seq    int
	movies map[int]*data.Movie
}

func newMockMovieStore() *mockMovieStore {
	return &mockMovieStore{movies: make(map[int]*data.Movie)}
}

func (s *mockMovieStore) Insert(movie *data.Movie) error {
	s.seq++
	movie.ID = s.seq
	movie.CreatedAt = time.Now().UTC()

	stored := *movie
	s.movies[movie.ID] = &stored
	return nil
}

func (s *mockMovieStore) GetAll() ([]*data.Movie, error) {
	movies := []*data.Movie{}
	for id := 1; id <= s.seq; id++ {
		if movie, ok := s.movies[id]; ok {
			found := *movie
			movies = append(movies, &found)
		}
	}
	return movies, nil
}

func (s *mockMovieStore) Get(id int) (*data.Movie, error) {
	movie, ok := s.movies[id]
	if !ok {
		return nil, data.ErrNoRecordFound
	}
	found := *movie
	return &found, nil
}

func (s *mockMovieStore) Delete(id int) error {
	if _, ok := s.movies[id]; !ok {
		return data.ErrNoRecordFound
	}
	delete(s.movies, id)
	return nil
}

type mockOrderStore struct {
	seq    int
	orders map[int]*data.MovieOrder
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: make(map[int]*data.MovieOrder)}
}

func (s *mockOrderStore) Insert(order *data.MovieOrder) error {
	s.seq++
	order.ID = s.seq
	order.BuyedAt = time.Now().UTC()

	stored := *order
	s.orders[order.ID] = &stored
	return nil
}
