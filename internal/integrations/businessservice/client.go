package businessservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerSettings настройки circuit breaker
type BreakerSettings struct {
	MaxRequests         uint32        // запросов в полуоткрытом состоянии
	Interval            time.Duration // период сброса счетчиков в закрытом состоянии
	Timeout             time.Duration // время в открытом состоянии
	ConsecutiveFailures uint32        // подряд идущих ошибок до размыкания
}

// Client клиент для работы с сервисом каталога бизнесов
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    Metrics
	log        Logger
}

// NewClient создает новый экземпляр клиента
// metrics может быть nil
func NewClient(baseURL string, timeout time.Duration, breaker BreakerSettings, metrics Metrics, log Logger) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		log:     log,
	}

	failures := breaker.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "businessservice",
		MaxRequests: breaker.MaxRequests,
		Interval:    breaker.Interval,
		Timeout:     breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// 404 - корректный ответ, не должен размыкать цепь
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
		// Отмена запроса вызывающей стороной не говорит о состоянии сервиса каталога
		IsExcluded: isCallerCancelled,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return c
}

// errNotFound внутренний маркер 404 от сервиса каталога
var errNotFound = errors.New("not found")

// GetBusiness получает бизнес с расписанием и мастерами
func (c *Client) GetBusiness(ctx context.Context, businessID int64) (*Business, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d", c.baseURL, businessID)

	body, err := c.get(ctx, url)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	var business Business
	if err := json.Unmarshal(body, &business); err != nil {
		c.fail("decode")
		return nil, fmt.Errorf("%w: failed to decode business: %v", ErrInvalidResponse, err)
	}

	return &business, nil
}

// GetService получает услугу бизнеса
func (c *Client) GetService(ctx context.Context, businessID, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/services/%d", c.baseURL, businessID, serviceID)

	body, err := c.get(ctx, url)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	var service Service
	if err := json.Unmarshal(body, &service); err != nil {
		c.fail("decode")
		return nil, fmt.Errorf("%w: failed to decode service: %v", ErrInvalidResponse, err)
	}

	if service.BusinessID != 0 && service.BusinessID != businessID {
		return nil, ErrServiceNotFound
	}

	return &service, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, url)
	})
	if err == nil {
		return body, nil
	}

	switch {
	case errors.Is(err, errNotFound):
		return nil, err
	case isCallerCancelled(err):
		c.log.Info("BusinessService request abandoned by caller: url=%s, error=%v", url, err)
		return nil, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.fail("circuit_open")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		c.log.Error("BusinessService request failed: url=%s, error=%v", url, err)
		return nil, err
	}
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.fail("transport")
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, errNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		c.fail("status")
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.fail("transport")
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrInternal, err)
	}

	return body, nil
}

// isCallerCancelled ошибка отмены контекста вызывающей стороной.
// Таймаут самого http.Client сюда не попадает: do возвращает ctx.Err() только при отмене ctx.
func isCallerCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) fail(reason string) {
	if c.metrics != nil {
		c.metrics.IncBusinessServiceFailure(reason)
	}
}
