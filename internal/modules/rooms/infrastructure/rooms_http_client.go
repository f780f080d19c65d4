package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"askRoomWeb/internal/modules/rooms/application/port"
	"askRoomWeb/internal/modules/rooms/domain"
)

// RoomsHTTPClient implements port.RoomsAPI against the rooms backend.
type RoomsHTTPClient struct {
	rest    *RESTClient
	timeout time.Duration
}

func NewRoomsHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *RoomsHTTPClient {
	return &RoomsHTTPClient{rest: NewRESTClient(baseURL, timeout, client), timeout: timeoutOrDefault(timeout)}
}

// Health calls the backend liveness endpoint.
func (c *RoomsHTTPClient) Health(ctx context.Context) (*domain.Health, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var health domain.Health
	if err := c.getJSON(ctx, healthPath, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// ListRooms returns every room in backend order.
func (c *RoomsHTTPClient) ListRooms(ctx context.Context) ([]domain.Room, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var rooms []domain.Room
	if err := c.getJSON(ctx, roomsPath, &rooms); err != nil {
		return nil, err
	}
	slog.Debug("rooms fetched", slog.Int("count", len(rooms)))
	return rooms, nil
}

// CreateRoom posts {name, description}. The response body is ignored.
func (c *RoomsHTTPClient) CreateRoom(ctx context.Context, name, description string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.postJSON(ctx, roomsPath, map[string]string{"name": name, "description": description})
}

// ListQuestions returns the questions of a room in backend order.
func (c *RoomsHTTPClient) ListQuestions(ctx context.Context, roomID string) ([]domain.Question, error) {
	path, err := questionsPath(roomID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var questions []domain.Question
	if err := c.getJSON(ctx, path, &questions); err != nil {
		return nil, err
	}
	slog.Debug("questions fetched", slog.String("roomId", roomID), slog.Int("count", len(questions)))
	return questions, nil
}

// CreateQuestion posts {content} to the room.
func (c *RoomsHTTPClient) CreateQuestion(ctx context.Context, roomID, content string) error {
	path, err := questionsPath(roomID)
	if err != nil {
		return err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.postJSON(ctx, path, map[string]string{"content": content})
}

// UploadAudio streams the file as the multipart field "audio". The reply is decoded on
// a best-effort basis since only its status is part of the contract.
func (c *RoomsHTTPClient) UploadAudio(ctx context.Context, roomID string, file port.AudioFile) (*domain.AudioUploadResult, error) {
	path, err := audioPath(roomID)
	if err != nil {
		return nil, err
	}
	if file.Content == nil {
		return nil, fmt.Errorf("%w: missing audio content", port.ErrInvalidInput)
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, contentType := multipartAudioBody(file)
	req, err := c.rest.NewRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		_ = body.Close()
		slog.Error("audio request build failed", slog.String("path", path), slog.Any("error", err))
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("audio upload error", slog.String("roomId", roomID), slog.String("filename", file.Filename), slog.Any("error", err))
		return nil, err
	}
	defer res.Body.Close()

	result := &domain.AudioUploadResult{}
	if err := json.NewDecoder(res.Body).Decode(result); err != nil {
		slog.Debug("audio reply not decoded", slog.String("roomId", roomID), slog.Any("error", err))
	}
	return result, nil
}

func (c *RoomsHTTPClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

func (c *RoomsHTTPClient) getJSON(ctx context.Context, path string, target any) error {
	req, err := c.rest.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		slog.Error("backend request build failed", slog.String("path", path), slog.Any("error", err))
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("backend request error", slog.String("path", path), slog.Any("error", err))
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *RoomsHTTPClient) postJSON(ctx context.Context, path string, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", path, err)
	}
	req, err := c.rest.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(encoded))
	if err != nil {
		slog.Error("backend request build failed", slog.String("path", path), slog.Any("error", err))
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("backend request error", slog.String("path", path), slog.Any("error", err))
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 1<<16))
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartAudioBody streams file through a pipe so large recordings are not buffered.
func multipartAudioBody(file port.AudioFile) (*io.PipeReader, string) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename="%s"`, quoteEscaper.Replace(file.Filename)))
		contentType := strings.TrimSpace(file.ContentType)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	return pr, writer.FormDataContentType()
}

var _ port.RoomsAPI = (*RoomsHTTPClient)(nil)
