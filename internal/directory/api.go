package directory

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/jaydenbeard/styx-e2e/internal/keymaterial"
	"github.com/jaydenbeard/styx-e2e/internal/primitives"
)

// API wires a Directory and Auth into an HTTP router, following the
// teacher's handler style of one closure-returning function per route
// (internal/handlers/user_handlers.go) rather than methods with an
// embedded router.
type API struct {
	dir  *Directory
	auth *Auth
}

// NewAPI constructs the router-building API.
func NewAPI(dir *Directory, auth *Auth) *API {
	return &API{dir: dir, auth: auth}
}

// Router builds the full route table, wrapped in the same permissive CORS
// policy shape the teacher applies at its outermost handler
// (cmd/chatserver uses rs/cors for browser clients).
func (a *API) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/v1/token", a.handleIssueToken).Methods(http.MethodPost)
	r.HandleFunc("/v1/accounts/{accountID}", a.requireAuth(a.handlePublishIdentity)).Methods(http.MethodPost)
	r.HandleFunc("/v1/accounts/{accountID}/signed-prekey", a.requireAuth(a.handleRotateSignedPrekey)).Methods(http.MethodPut)
	r.HandleFunc("/v1/accounts/{accountID}/one-time-prekeys", a.requireAuth(a.handleReplenishOneTimePrekeys)).Methods(http.MethodPost)
	r.HandleFunc("/v1/accounts/{accountID}/bundle", a.handleFetchBundle).Methods(http.MethodGet)
	r.HandleFunc("/healthz", a.handleHealthz).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})
	return c.Handler(r)
}

func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		claims, err := a.auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if claims.AccountID != mux.Vars(r)["accountID"] {
			http.Error(w, "token does not authorize this account", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

type issueTokenRequest struct {
	AccountID string `json:"account_id"`
}

type issueTokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (a *API) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	token, expiresAt, err := a.auth.IssueToken(req.AccountID)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, issueTokenResponse{AccessToken: token, ExpiresAt: expiresAt})
}

type publishIdentityRequest struct {
	IdentityPub     []byte `json:"identity_pub"`
	SignedPrekeyID  uint32 `json:"signed_prekey_id"`
	SignedPrekeyPub []byte `json:"signed_prekey_pub"`
	SignedPrekeySig []byte `json:"signed_prekey_sig"`
}

func (a *API) handlePublishIdentity(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountID"]

	var req publishIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if len(req.SignedPrekeyPub) != primitives.X25519KeySize {
		http.Error(w, "invalid signed prekey length", http.StatusBadRequest)
		return
	}

	var spkPub [primitives.X25519KeySize]byte
	copy(spkPub[:], req.SignedPrekeyPub)

	if !keymaterial.VerifySignedPrekey(req.IdentityPub, spkPub, req.SignedPrekeySig) {
		http.Error(w, "signed prekey signature does not verify", http.StatusBadRequest)
		return
	}

	spk := keymaterial.SignedPrekey{
		ID:        req.SignedPrekeyID,
		Signature: req.SignedPrekeySig,
	}
	spk.KeyPair.Public = spkPub

	if err := a.dir.Store.PublishIdentity(r.Context(), accountID, req.IdentityPub, spk); err != nil {
		http.Error(w, "could not publish identity", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *API) handleRotateSignedPrekey(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountID"]

	var req struct {
		SignedPrekeyID  uint32 `json:"signed_prekey_id"`
		SignedPrekeyPub []byte `json:"signed_prekey_pub"`
		SignedPrekeySig []byte `json:"signed_prekey_sig"`
		IdentityPub     []byte `json:"identity_pub"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.SignedPrekeyPub) != primitives.X25519KeySize {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	var spkPub [primitives.X25519KeySize]byte
	copy(spkPub[:], req.SignedPrekeyPub)

	row, err := a.dir.Store.lookupAccount(r.Context(), accountID)
	if err != nil {
		if err == ErrAccountNotFound {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not rotate signed prekey", http.StatusInternalServerError)
		return
	}
	if !keymaterial.VerifySignedPrekey(row.IdentityPub, spkPub, req.SignedPrekeySig) {
		http.Error(w, "signed prekey signature does not verify", http.StatusBadRequest)
		return
	}

	spk := keymaterial.SignedPrekey{ID: req.SignedPrekeyID, Signature: req.SignedPrekeySig}
	spk.KeyPair.Public = spkPub

	if err := a.dir.Store.RotateSignedPrekey(r.Context(), accountID, spk); err != nil {
		if err == ErrAccountNotFound {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not rotate signed prekey", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleReplenishOneTimePrekeys(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountID"]

	var req struct {
		Prekeys []struct {
			ID        uint32 `json:"id"`
			PublicKey []byte `json:"public_key"`
		} `json:"prekeys"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	prekeys := make([]keymaterial.OneTimePrekey, 0, len(req.Prekeys))
	for _, p := range req.Prekeys {
		if len(p.PublicKey) != primitives.X25519KeySize {
			http.Error(w, "invalid one-time prekey length", http.StatusBadRequest)
			return
		}
		otp := keymaterial.OneTimePrekey{ID: p.ID}
		copy(otp.KeyPair.Public[:], p.PublicKey)
		prekeys = append(prekeys, otp)
	}

	if err := a.dir.Pool.Replenish(r.Context(), accountID, prekeys); err != nil {
		http.Error(w, "could not replenish one-time prekeys", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleFetchBundle(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountID"]

	bundle, err := a.dir.FetchBundle(r.Context(), accountID)
	if err != nil {
		if err == ErrAccountNotFound {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch bundle", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(bundle.Encode())
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
