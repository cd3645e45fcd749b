package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
)

const (
	msgRateLimited = "слишком много запросов, попробуйте позже"

	defaultRateLimitPrefix = "slots:rl"
)

// Limiter решает, можно ли пропустить очередной запрос клиента
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RateLimit ограничивает частоту запросов по IP клиента
// При ошибке лимитера запрос пропускается
func RateLimit(limiter Limiter, proxies *TrustedProxies, logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := proxies.ClientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("RateLimit: limiter error for client=%s: %v", key, err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				logger.Warn("RateLimit: limit exceeded for client=%s, path=%s", key, r.URL.Path)
				handlers.RespondTooManyRequests(w, msgRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// TrustedProxies адреса прокси, которым разрешено передавать X-Forwarded-For
type TrustedProxies struct {
	nets []*net.IPNet
}

// ParseTrustedProxies разбирает список CIDR или отдельных IP
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	p := &TrustedProxies{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			p.nets = append(p.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		p.nets = append(p.nets, ipNet)
	}
	return p, nil
}

func (p *TrustedProxies) trusts(ip net.IP) bool {
	if p == nil || ip == nil {
		return false
	}
	for _, n := range p.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP IP клиента для ключа лимита
// X-Forwarded-For учитывается, только если запрос пришел от доверенного прокси:
// берется самый правый адрес цепочки, не принадлежащий доверенным прокси.
// Иначе используется RemoteAddr.
func (p *TrustedProxies) ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if !p.trusts(net.ParseIP(host)) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			break
		}
		if !p.trusts(ip) {
			return ip.String()
		}
	}
	return host
}

// RedisLimiter фиксированное окно в Redis, общее для всех экземпляров сервиса
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// NewRedisLimiter создает лимитер: не более limit запросов за window на клиента
func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = defaultRateLimitPrefix
	}
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window, prefix: prefix}
}

// Allow увеличивает счетчик окна и сравнивает его с лимитом
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, err
	}

	count, err := scriptCount(res)
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}

func scriptCount(res interface{}) (int64, error) {
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// LocalLimiter token bucket на клиента в памяти процесса
// Используется, когда Redis выключен
type LocalLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*localEntry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter создает лимитер: в среднем limit запросов за window, всплеск до limit
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*localEntry),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idleTTL:  10 * window,
		now:      time.Now,
	}
}

// Allow расходует токен клиента
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	entry, ok := l.limiters[key]
	if !ok {
		entry = &localEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1), nil
}

// sweep удаляет давно неактивных клиентов
func (l *LocalLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}
