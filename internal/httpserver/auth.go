// internal/httpserver/auth.go
//
// Accounts and tokens.
//   - POST /auth/signup, /auth/login, /auth/logout and GET /auth/me.
//   - HS256 JWTs carried in an HttpOnly cookie or an Authorization: Bearer header.
//   - requireAuth rejects requests without a valid token; withOptionalAuth only decorates.
//   - Guests get a stable anonymous id cookie so server-side saves survive reloads.
//   - Signup and login are rate limited per client IP.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/robalobadob/duotrigordle/internal/store"
)

const (
	anonCookieName   = "duo_anon"
	anonCookieMaxAge = 180 * 24 * 60 * 60
)

// authUser is placed into the request context by the auth middlewares.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

func currentUser(r *http.Request) *authUser {
	u, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return u
}

type credentials struct {
	Username string `json:"username" validate:"required,min=3,max=24,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

var usernameRE = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// validate checks signup payloads; "username" allows letters, digits and underscore.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRE.MatchString(fl.Field().String())
	})
	return v
}()

func (s *Server) mountAuth() {
	limited := s.r.With(s.authLimiter.middleware)
	limited.Post("/auth/signup", s.handleSignup)
	limited.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	if err := validateSignup(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), s.bcryptCost)
	if err != nil {
		s.log.Error().Err(err).Msg("hash password")
		writeError(w, http.StatusInternalServerError, "hash_failed")
		return
	}
	u, err := s.db.CreateUser(r.Context(), body.Username, string(hash))
	if errors.Is(err, store.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "Username taken")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.log.Info().Str("user", u.ID).Msg("signup")
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.db.UserByUsername(r.Context(), body.Username)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setCookie(w, s.cfg.Auth.CookieName, "", -1)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// issueToken signs a token for u and sets the auth cookie. The token is also
// returned in the X-Auth-Token header for non-browser clients.
func (s *Server) issueToken(w http.ResponseWriter, u *store.User) bool {
	tok, _, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		s.log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setCookie(w, s.cfg.Auth.CookieName, tok, int(s.cfg.Auth.TokenTTL()/time.Second))
	w.Header().Set("X-Auth-Token", tok)
	return true
}

func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.Auth.TokenTTL())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.Auth.JWTSecret))
	return ss, exp, err
}

// parseToken validates tokenStr and returns its subject.
func (s *Server) parseToken(tokenStr string) (*authUser, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return nil, errors.New("invalid token")
	}
	return &authUser{ID: id, Username: username}, nil
}

// authenticate resolves the request's token to a user that still exists.
func (s *Server) authenticate(r *http.Request) (*authUser, bool) {
	tok := bearerOrCookie(r, s.cfg.Auth.CookieName)
	if tok == "" {
		return nil, false
	}
	u, err := s.parseToken(tok)
	if err != nil {
		return nil, false
	}
	if _, err := s.db.UserByID(r.Context(), u.ID); err != nil {
		return nil, false
	}
	return u, true
}

// requireAuth enforces a valid JWT and injects authUser into the request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := s.authenticate(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}

// withOptionalAuth decorates requests with the user when a valid token is present.
// It never rejects; guests fall back to the anonymous id.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := s.authenticate(r); ok {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// playerID is the user id for signed-in requests, otherwise the anonymous id
// (set on first use).
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if u := currentUser(r); u != nil {
		return u.ID
	}
	if c, err := r.Cookie(anonCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return "anon:" + c.Value
		}
	}
	id := uuid.NewString()
	s.setCookie(w, anonCookieName, id, anonCookieMaxAge)
	return "anon:" + id
}

// setCookie writes an HttpOnly cookie; production deployments get Secure + SameSite=None.
// Lifetimes are given as Max-Age seconds so they never depend on the game clock;
// a negative maxAge deletes the cookie.
func (s *Server) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Server.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Server.Production,
		SameSite: sameSite,
		MaxAge:   maxAge,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the auth cookie.
func bearerOrCookie(r *http.Request, cookie string) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}

// validateSignup enforces basic username/password rules and turns the first
// violation into a message for the client.
func validateSignup(c credentials) error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch fe := verrs[0]; {
	case fe.Field() == "Username" && fe.Tag() == "username":
		return errors.New("username: letters, numbers, underscore only")
	case fe.Field() == "Username":
		return errors.New("username must be 3-24 chars")
	default:
		return errors.New("password must be 8-72 chars")
	}
}

// rateLimiter throttles requests per client IP (RemoteAddr after chimw.RealIP).
// A zero perMinute disables it.
type rateLimiter struct {
	mu        sync.Mutex
	perMinute int
	clients   map[string]*rate.Limiter
}

func newRateLimiter(perMinute int) *rateLimiter {
	return &rateLimiter{perMinute: perMinute, clients: make(map[string]*rate.Limiter)}
}

func (l *rateLimiter) allow(ip string) bool {
	if l.perMinute <= 0 {
		return true
	}
	l.mu.Lock()
	lim, ok := l.clients[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)
		l.clients[ip] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.allow(ip) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "too_many_requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
