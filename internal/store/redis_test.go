package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"

	"depth-crawler/internal/models"
	"depth-crawler/mocks"
)

func TestNewRedisClientAppliesContextDeadlines(t *testing.T) {
	client := NewRedisClient(RedisOptions{Addr: "localhost:6379", PoolSize: 3})
	defer client.Close()

	opts := client.Options()
	if !opts.ContextTimeoutEnabled {
		t.Fatal("expected context deadlines to be applied to commands")
	}
	if opts.PoolSize != 3 || opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected options: addr=%s pool=%d", opts.Addr, opts.PoolSize)
	}
}

func TestRedisQueuePushEncodesFlatJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	q := NewRedisFrontier(client, "crawler:")

	client.EXPECT().
		LPush(gomock.Any(), "crawler:queue:frontier", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, values ...interface{}) *redis.IntCmd {
			if len(values) != 1 {
				t.Fatalf("expected one value, got %d", len(values))
			}
			var decoded map[string]interface{}
			if err := json.Unmarshal(values[0].([]byte), &decoded); err != nil {
				t.Fatalf("unexpected payload: %v", err)
			}
			if decoded["address"] != "https://example.com/" || decoded["depth"] != float64(1) {
				t.Fatalf("unexpected record: %v", decoded)
			}
			return redis.NewIntResult(1, nil)
		})

	if err := q.Push(context.Background(), models.Link{Address: "https://example.com/", Depth: 1}); err != nil {
		t.Fatalf("unexpected push error: %v", err)
	}
}

func TestRedisQueuePopDecodesPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	q := NewRedisFetched(client, "crawler:")
	raw := `{"link":{"address":"https://example.com/","depth":0},"html":"<html></html>"}`

	client.EXPECT().
		BRPop(gomock.Any(), time.Second, "crawler:queue:fetched").
		Return(redis.NewStringSliceResult([]string{"crawler:queue:fetched", raw}, nil))

	page, ok, err := q.Pop(context.Background(), time.Second)
	if err != nil || !ok {
		t.Fatalf("expected page, ok=%v err=%v", ok, err)
	}
	if page.Link.Address != "https://example.com/" || page.HTML != "<html></html>" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestRedisQueuePopTimeoutIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	q := NewRedisFrontier(client, "crawler:")
	client.EXPECT().
		BRPop(gomock.Any(), time.Second, "crawler:queue:frontier").
		Return(redis.NewStringSliceResult(nil, redis.Nil))

	_, ok, err := q.Pop(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("timeout must not be an error: %v", err)
	}
	if ok {
		t.Fatal("expected empty result")
	}
}

func TestRedisQueuePopNonBlockingUsesRPop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	q := NewRedisFrontier(client, "")
	client.EXPECT().RPop(gomock.Any(), "queue:frontier").Return(redis.NewStringResult(`{"address":"https://example.com/","depth":2}`, nil))

	link, ok, err := q.Pop(context.Background(), 0)
	if err != nil || !ok {
		t.Fatalf("expected link, ok=%v err=%v", ok, err)
	}
	if link.Depth != 2 {
		t.Fatalf("unexpected link: %+v", link)
	}
}

func TestRedisQueuePopConnectionErrorIsUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	q := NewRedisFrontier(client, "crawler:")
	cause := errors.New("dial tcp: connection refused")
	client.EXPECT().
		BRPop(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(redis.NewStringSliceResult(nil, cause))

	_, ok, err := q.Pop(context.Background(), time.Second)
	if ok {
		t.Fatal("expected no item")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestRedisQueuePopCancelledReturnsContextError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	q := NewRedisFrontier(client, "crawler:")
	ctx, cancel := context.WithCancel(context.Background())
	client.EXPECT().
		BRPop(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Duration, ...string) *redis.StringSliceCmd {
			cancel()
			return redis.NewStringSliceResult(nil, context.Canceled)
		})

	_, _, err := q.Pop(ctx, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Fatal("cancellation must not be reported as a storage failure")
	}
}

func TestRedisQueuePushErrorIsUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	q := NewRedisFrontier(client, "crawler:")
	client.EXPECT().LPush(gomock.Any(), gomock.Any(), gomock.Any()).Return(redis.NewIntResult(0, errors.New("broken pipe")))

	err := q.Push(context.Background(), models.Link{Address: "https://example.com/"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRedisQueueClear(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	q := NewRedisFetched(client, "crawler:")
	client.EXPECT().Del(gomock.Any(), "crawler:queue:fetched").Return(redis.NewIntResult(1, nil))

	if err := q.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected clear error: %v", err)
	}
}

func TestRedisVisitedSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	set := NewRedisVisitedSet(client, "crawler:")
	gomock.InOrder(
		client.EXPECT().SAdd(gomock.Any(), "crawler:set:visited", "https://example.com/").Return(redis.NewIntResult(1, nil)),
		client.EXPECT().SAdd(gomock.Any(), "crawler:set:visited", "https://example.com/").Return(redis.NewIntResult(0, nil)),
		client.EXPECT().SIsMember(gomock.Any(), "crawler:set:visited", "https://example.com/").Return(redis.NewBoolResult(true, nil)),
	)

	ctx := context.Background()
	if added, err := set.AddIfNotPresent(ctx, "https://example.com/"); err != nil || !added {
		t.Fatalf("expected first add to win, added=%v err=%v", added, err)
	}
	if added, err := set.AddIfNotPresent(ctx, "https://example.com/"); err != nil || added {
		t.Fatalf("expected second add to lose, added=%v err=%v", added, err)
	}
	if present, err := set.IsPresent(ctx, "https://example.com/"); err != nil || !present {
		t.Fatalf("expected url present, present=%v err=%v", present, err)
	}
}

func TestRedisVisitedSetErrorIsNotAbsence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	set := NewRedisVisitedSet(client, "crawler:")
	client.EXPECT().SIsMember(gomock.Any(), gomock.Any(), gomock.Any()).Return(redis.NewBoolResult(false, errors.New("i/o timeout")))
	client.EXPECT().SAdd(gomock.Any(), gomock.Any(), gomock.Any()).Return(redis.NewIntResult(0, errors.New("i/o timeout")))

	if _, err := set.IsPresent(context.Background(), "https://example.com/"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from IsPresent, got %v", err)
	}
	if _, err := set.AddIfNotPresent(context.Background(), "https://example.com/"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from AddIfNotPresent, got %v", err)
	}
}

func TestRedisStatusStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	s := NewRedisStatusStore(client, "crawler:", time.Hour)
	status := models.CrawlStatus{RunID: "run-1", SeedURL: "https://example.com/", Status: models.StatusStopped}
	payload, _ := json.Marshal(status)

	client.EXPECT().Set(gomock.Any(), "crawler:status:run-1", payload, time.Hour).Return(redis.NewStatusResult("OK", nil))
	client.EXPECT().Get(gomock.Any(), "crawler:status:run-1").Return(redis.NewStringResult(string(payload), nil))
	client.EXPECT().Get(gomock.Any(), "crawler:status:missing").Return(redis.NewStringResult("", redis.Nil))

	ctx := context.Background()
	if err := s.SetStatus(ctx, status); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	got, ok, err := s.GetStatus(ctx, "run-1")
	if err != nil || !ok || got.Status != models.StatusStopped {
		t.Fatalf("unexpected status: %+v ok=%v err=%v", got, ok, err)
	}
	if _, ok, err := s.GetStatus(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected missing status, ok=%v err=%v", ok, err)
	}
}
