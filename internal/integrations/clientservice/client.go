package clientservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HTTPClient клиент для работы с ClientService (CRM клиентов барбершопа)
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ClientService
func NewClient(baseURL string, timeout time.Duration, log Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetClient получает клиента по ID
func (c *HTTPClient) GetClient(ctx context.Context, clientID int64) (*Client, error) {
	endpoint := fmt.Sprintf("%s/internal/clients/%d", c.baseURL, clientID)

	var client Client
	if err := c.getJSON(ctx, endpoint, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// GetClientByUserID получает клиента по ID пользователя платформы
// Используется для определения категории клиента при проверке области действия правил
func (c *HTTPClient) GetClientByUserID(ctx context.Context, userID int64) (*Client, error) {
	endpoint := fmt.Sprintf("%s/internal/users/%d/client", c.baseURL, userID)

	var client Client
	if err := c.getJSON(ctx, endpoint, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// GetAppointmentHistory получает историю записей клиента
// Если serviceID указан, возвращаются только записи по этой услуге
func (c *HTTPClient) GetAppointmentHistory(ctx context.Context, clientID int64, serviceID *int64) ([]*Appointment, error) {
	endpoint := fmt.Sprintf("%s/internal/clients/%d/appointments", c.baseURL, clientID)
	if serviceID != nil {
		endpoint += "?" + url.Values{"serviceId": []string{strconv.FormatInt(*serviceID, 10)}}.Encode()
	}

	appointments := make([]*Appointment, 0)
	if err := c.getJSON(ctx, endpoint, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ
func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid request parameters", ErrInvalidResponse)
	case http.StatusNotFound:
		return ErrClientNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
