package fakeapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/amiskov/guide-client/pkg/artifact"
	"github.com/amiskov/guide-client/pkg/chat"
	"github.com/amiskov/guide-client/pkg/logger"
	"github.com/amiskov/guide-client/pkg/user"
)

type userKey struct{}

const (
	historyLimit = 20
	latestLimit  = 5
)

var imageExtensions = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true}

var catalog = []artifact.Match{
	{ArtifactName: "Bronze ding", NumberPeriod: "Shang dynasty", History: "Ritual cooking vessel.", Craft: "piece-mould casting"},
	{ArtifactName: "Jade cong", NumberPeriod: "Liangzhu culture", History: "Square tube with a round bore.", Craft: "abrasive carving"},
	{ArtifactName: "Tri-colour glazed horse", NumberPeriod: "Tang dynasty", History: "Tomb figure.", Craft: "lead-glazed earthenware"},
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get("X-User-ID")

		s.mu.Lock()
		_, known := s.byID[uid]
		revoked := s.revoked[uid]
		s.mu.Unlock()

		if uid == "" || !known || revoked {
			logger.Log(r.Context()).Infof("fakeapi: refusing user `%s` on %s", uid, r.URL.Path)
			writeMsg(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, uid)))
	})
}

func currentUser(r *http.Request) string {
	uid, _ := r.Context().Value(userKey{}).(string)
	return uid
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeRespJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) Config(w http.ResponseWriter, r *http.Request) {
	writeRespJSON(w, http.StatusOK, map[string]string{"theme": "light", "language": "zh-CN"})
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	reg := new(user.Registration)
	if err := parseReqBody(r.Body, reg); err != nil {
		logger.Log(r.Context()).Errorf("fakeapi: can't parse request body as registration: %v", err)
		writeMsg(w, "bad request format", http.StatusBadRequest)
		return
	}
	if reg.Username == "" || reg.Email == "" || reg.Password == "" {
		writeMsg(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	if !strings.Contains(reg.Email, "@") {
		writeMsg(w, "Invalid email format", http.StatusBadRequest)
		return
	}
	if len(reg.Password) < 6 {
		writeMsg(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if _, exists := s.users[reg.Username]; exists {
		s.mu.Unlock()
		writeRefusal(w, fmt.Sprintf(`user "%s" already exists`, reg.Username))
		return
	}
	id := s.addUser(reg.Username, reg.Email, reg.Password)
	s.mu.Unlock()

	n, _ := strconv.Atoi(id)
	writeEnvelope(w, map[string]int{"user_id": n})
}

func (s *Server) LogIn(w http.ResponseWriter, r *http.Request) {
	creds := new(user.Credentials)
	if err := parseReqBody(r.Body, creds); err != nil {
		logger.Log(r.Context()).Errorf("fakeapi: can't parse request body as credentials: %v", err)
		writeMsg(w, "bad request format", http.StatusBadRequest)
		return
	}
	if creds.Username == "" || creds.Password == "" {
		writeMsg(w, "Missing credentials", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	a, ok := s.users[creds.Username]
	if ok && a.Password == creds.Password {
		delete(s.revoked, strconv.Itoa(a.ID))
	}
	s.mu.Unlock()

	if !ok || a.Password != creds.Password {
		writeRefusal(w, "invalid username or password")
		return
	}

	// Naive local timestamps, as the real service sends them.
	now := s.now().Local()
	writeEnvelope(w, map[string]any{
		"userid":     strconv.Itoa(a.ID),
		"expires_in": int(s.ttl.Seconds()),
		"expires_at": now.Add(s.ttl).Format(isoLayout),
		"created_at": now.Format(isoLayout),
	})
}

func (s *Server) UserInfo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id != currentUser(r) {
		writeMsg(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	a := s.byID[id]
	s.mu.Unlock()

	writeRespJSON(w, http.StatusOK, map[string]any{
		"id":         a.ID,
		"username":   a.Username,
		"email":      a.Email,
		"created_at": a.Created.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)
	msg := r.FormValue("message")
	if msg == "" {
		writeMsg(w, "message is required", http.StatusUnprocessableEntity)
		return
	}

	content := msg
	if file, hdr, err := r.FormFile("image"); err == nil {
		defer file.Close()
		if !imageExtensions[extension(hdr.Filename)] {
			writeRespJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "unsupported file type"})
			return
		}
		content = fmt.Sprintf("{'text': %q, 'image_path': '/uploads/%s'}", msg, hdr.Filename)
	}

	now := s.now().Local().Format(isoLayout)
	answer := "echo: " + msg

	s.mu.Lock()
	s.messages[uid] = append(s.messages[uid],
		chat.Message{Role: "user", Content: content, Timestamp: now},
		chat.Message{Role: "assistant", Content: answer, Timestamp: now},
	)
	s.mu.Unlock()

	writeEnvelope(w, chat.Reply{
		AIResponse:       answer,
		Timestamp:        now,
		RelatedArtifacts: []chat.RelatedArtifact{},
	})
}

func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	s.writeHistory(w, currentUser(r), historyLimit)
}

func (s *Server) Latest(w http.ResponseWriter, r *http.Request) {
	limit := latestLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	s.writeHistory(w, currentUser(r), limit)
}

func (s *Server) writeHistory(w http.ResponseWriter, uid string, limit int) {
	msgs := s.Messages(uid)
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	writeRespJSON(w, http.StatusOK, chat.History{History: msgs, Count: len(msgs)})
}

func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeMsg(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	if !imageExtensions[extension(hdr.Filename)] {
		writeMsg(w, "unsupported file type", http.StatusBadRequest)
		return
	}
	size, _ := io.Copy(io.Discard, file)
	stored := uuid.NewString() + "." + extension(hdr.Filename)
	writeEnvelope(w, map[string]any{
		"filename": hdr.Filename,
		"size":     size,
		"file_url": "/uploads/" + stored,
	})
}

func (s *Server) Recognize(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("audio")
	if err != nil {
		writeMsg(w, "audio is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)
	writeEnvelope(w, map[string]string{"text": strings.TrimSpace(string(data))})
}

func (s *Server) Synthesize(w http.ResponseWriter, r *http.Request) {
	body := struct {
		Text string `json:"text"`
	}{}
	if err := parseReqBody(r.Body, &body); err != nil || body.Text == "" {
		writeMsg(w, "text is required", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("RIFF" + body.Text))
}

func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := new(artifact.Query)
	if err := parseReqBody(r.Body, q); err != nil {
		writeMsg(w, "bad request format", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(q.Query) == "" {
		writeMsg(w, "query is required", http.StatusBadRequest)
		return
	}
	results := search(q.Query, q.TopK)
	writeEnvelope(w, artifact.SearchResult{Results: results, Count: len(results), Query: q.Query})
}

func (s *Server) RecognizeArtifact(w http.ResponseWriter, r *http.Request) {
	file, hdr, err := r.FormFile("image")
	if err != nil {
		writeMsg(w, "image is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	if !imageExtensions[extension(hdr.Filename)] {
		writeMsg(w, "unsupported file type", http.StatusBadRequest)
		return
	}
	writeEnvelope(w, artifact.Recognition{
		Recognition:      map[string]any{"artifact_name": catalog[0].ArtifactName, "artifact_type": "bronze"},
		SimilarArtifacts: search("bronze", 5),
		FileURL:          "/uploads/" + uuid.NewString() + "." + extension(hdr.Filename),
	})
}

// search scores catalog entries by how many query words they mention.
func search(query string, topK int) []artifact.Match {
	if topK <= 0 {
		topK = 5
	}
	words := strings.Fields(strings.ToLower(query))
	out := []artifact.Match{}
	for _, m := range catalog {
		text := strings.ToLower(m.ArtifactName + " " + m.NumberPeriod + " " + m.History + " " + m.Craft)
		hits := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		m.Score = float64(hits) / float64(len(words))
		m.Content = m.History
		out = append(out, m)
		if len(out) == topK {
			break
		}
	}
	return out
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
