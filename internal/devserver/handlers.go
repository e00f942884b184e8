// ABOUTME: HTTP handlers for the stub API server
// ABOUTME: Sign-up, sign-in, current user, multipart upload and health endpoints

package devserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/validate"
)

const (
	maxBodyBytes   = 1 << 20  // 1MB
	maxUploadBytes = 32 << 20 // 32MB
)

// envelope is the {status, message, token, data} shape every endpoint returns
type envelope struct {
	Status  bool                 `json:"status"`
	Message string               `json:"message,omitempty"`
	Token   string               `json:"token,omitempty"`
	Data    any                  `json:"data,omitempty"`
	Errors  validate.FieldErrors `json:"errors,omitempty"`
}

type authData struct {
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// signInRequest is the {loginType, email|phone, password} body
type signInRequest struct {
	LoginType models.LoginType `json:"loginType"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Password  string           `json:"password"`
}

func (r signInRequest) credentials() models.Credentials {
	id := models.Email(r.Email)
	if r.LoginType == models.LoginPhone {
		id = models.Phone(r.Phone)
	}
	return models.Credentials{Identifier: id, Password: r.Password}
}

// UploadedFile describes one stored multipart file
type UploadedFile struct {
	ID       string `json:"id"`
	Field    string `json:"field"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type uploadData struct {
	Message string              `json:"message"`
	Files   []UploadedFile      `json:"files"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// SignUp handles POST /api/signup
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var profile models.SignupProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validate.SignupProfile(profile); !errs.OK() {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "Validation failed", Errors: errs})
		return
	}

	user, err := s.store.CreateUser(r.Context(), profile)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			writeError(w, http.StatusConflict, "User already exists")
			return
		}
		slog.Error("Failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("User registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, envelope{
		Status: true,
		Data:   authData{Message: "Account created successfully", User: &user},
	})
}

// SignIn handles POST /api/signin
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	creds := req.credentials()
	if errs := validate.Credentials(creds); !errs.OK() {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "Validation failed", Errors: errs})
		return
	}

	user, err := s.store.Authenticate(r.Context(), creds.Identifier, creds.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			slog.Warn("Authentication failed", "login_type", req.LoginType.String())
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("Failed to authenticate", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		slog.Error("Failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Status: true,
		Token:  token,
		Data:   authData{Message: "Login successful", Token: token, User: &user},
	})
}

// Me handles GET /api/me
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	user, err := s.store.UserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		slog.Error("Failed to load user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, envelope{Status: true, Data: user})
}

// Upload handles POST and PUT /api/upload
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	fieldNames := make([]string, 0, len(r.MultipartForm.File))
	for name := range r.MultipartForm.File {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)

	var files []UploadedFile
	for _, field := range fieldNames {
		for _, fh := range r.MultipartForm.File[field] {
			size, err := drain(fh)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Unreadable file "+fh.Filename)
				return
			}
			id, err := s.store.RecordUpload(r.Context(), userID, field, fh.Filename, size)
			if err != nil {
				slog.Error("Failed to record upload", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			files = append(files, UploadedFile{ID: id, Field: field, Filename: fh.Filename, Size: size})
		}
	}

	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No files in request")
		return
	}

	slog.Info("Upload received", "user_id", userID, "files", len(files))
	writeJSON(w, http.StatusOK, envelope{
		Status: true,
		Data: uploadData{
			Message: "Upload received",
			Files:   files,
			Fields:  r.MultipartForm.Value,
		},
	})
}

// Health handles GET /api/health
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Status: true, Message: "ok"})
}

// drain reads a multipart file to count its bytes
func drain(fh *multipart.FileHeader) (int64, error) {
	f, err := fh.Open()
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(io.Discard, f)
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Status: false, Message: message})
}
