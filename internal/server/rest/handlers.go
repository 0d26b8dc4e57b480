package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/gorilla/mux"
)

const (
	msgWelcome       = "Welcome to the AI-powered interview assistant!"
	msgAuthRequired  = "Authentication required"
	msgForbidden     = "Access forbidden: insufficient permissions"
	msgBadRequest    = "Invalid request body"
	msgInternal      = "Internal server error"
	msgUserExists    = "Username already exists"
	msgUserNotFound  = "User not found"
	msgBadLogin      = "Invalid username or password"
	msgNoAudio       = "No audio recorded"
	msgAlreadyActive = "Recording already in progress"
	msgNoDevice      = "Audio device unavailable"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}

func (s *HTTPServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeMessage(w, http.StatusInternalServerError, msgInternal)
}

func (s *HTTPServer) index(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, msgWelcome)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	u, err := s.users.Register(r.Context(), req.Username, req.Password, req.Role)
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusBadRequest, msgUserExists)
		return
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", u.UserName, "role", u.Role)
	writeMessage(w, http.StatusOK, "User registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Message      string `json:"message,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	tokens, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeMessage(w, http.StatusUnauthorized, msgBadLogin)
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Message:      "Logged in successfully",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(w, r, &req); err != nil || req.RefreshToken == "" {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	tokens, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrRefreshTokenExpired) {
			writeMessage(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), userIDFrom(r.Context())); err != nil {
		s.internalError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

type questionRequest struct {
	Question string `json:"question"`
	Category string `json:"category"`
}

type questionResponse struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Category string `json:"category"`
}

func (s *HTTPServer) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	q, err := s.questions.Add(r.Context(), req.Question, req.Category)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		ID      int64  `json:"id"`
	}{"Question added successfully", q.ID})
}

func (s *HTTPServer) getQuestions(w http.ResponseWriter, r *http.Request) {
	list, err := s.questions.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	out := make([]questionResponse, 0, len(list))
	for _, q := range list {
		out = append(out, questionResponse{ID: q.ID, Question: q.Text, Category: q.Category})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) replaceQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Question not found")
		return
	}

	var req questionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	err = s.questions.Replace(r.Context(), id, req.Question, req.Category)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, "Question not found")
		return
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Question updated successfully")
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

func (s *HTTPServer) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	err := s.users.UpdateProfile(r.Context(), userIDFrom(r.Context()), req.Username, req.Password)
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusBadRequest, msgUserExists)
		return
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, msgUserNotFound)
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Profile updated successfully")
}

type resetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

func (s *HTTPServer) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	err := s.users.ResetPassword(r.Context(), req.Username, req.NewPassword)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, msgUserNotFound)
		return
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successfully")
}

type promoteRequest struct {
	Username string `json:"username"`
}

func (s *HTTPServer) promoteUser(w http.ResponseWriter, r *http.Request) {
	var req promoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	if err := s.users.Promote(r.Context(), req.Username); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "User promoted to admin successfully")
}

func (s *HTTPServer) startRecording(w http.ResponseWriter, r *http.Request) {
	err := s.recordings.Start(r.Context(), userIDFrom(r.Context()))
	switch {
	case errors.Is(err, common.ErrAlreadyRecording):
		writeMessage(w, http.StatusConflict, msgAlreadyActive)
		return
	case errors.Is(err, common.ErrDeviceUnavailable):
		s.logger.Error(r.Context(), "start recording", "error", err)
		writeMessage(w, http.StatusInternalServerError, msgNoDevice)
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Recording started")
}

type stopRecordingResponse struct {
	Message       string `json:"message"`
	FileName      string `json:"filename"`
	Transcription string `json:"transcription"`
}

func (s *HTTPServer) stopRecording(w http.ResponseWriter, r *http.Request) {
	res, err := s.recordings.Stop(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrNoRecording) {
			writeMessage(w, http.StatusBadRequest, msgNoAudio)
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stopRecordingResponse{
		Message:       "Recording saved and transcribed",
		FileName:      res.FileName,
		Transcription: res.Transcription,
	})
}

type recordingResponse struct {
	ID              string    `json:"id"`
	FileName        string    `json:"filename"`
	Transcription   string    `json:"transcription"`
	DurationSeconds float64   `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
	DownloadURL     string    `json:"download_url,omitempty"`
}

func (s *HTTPServer) listRecordings(w http.ResponseWriter, r *http.Request) {
	list, err := s.recordings.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	out := make([]recordingResponse, 0, len(list))
	for _, v := range list {
		out = append(out, recordingResponse{
			ID:              v.ID,
			FileName:        v.FileName,
			Transcription:   v.Transcription,
			DurationSeconds: v.Duration.Seconds(),
			CreatedAt:       v.CreatedAt,
			DownloadURL:     v.DownloadURL,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
