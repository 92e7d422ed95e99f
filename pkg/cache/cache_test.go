package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/strixun/modvault/pkg/cache"
)

// badgeEntry 测试用的徽标缓存结构体.
type badgeEntry struct {
	Status string `json:"status"`
	SVG    string `json:"svg"`
	Width  int    `json:"width"`
}

// mockKVStore 模拟KV存储实现，用于单元测试.
type mockKVStore struct {
	data map[string][]byte
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{
		data: make(map[string][]byte),
	}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if value, exists := m.data[key]; exists {
		return value, nil
	}

	return nil, fmt.Errorf("key not found")
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockKVStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockKVStore) Exists(ctx context.Context, key string) (bool, error) {
	_, exists := m.data[key]
	return exists, nil
}

func (m *mockKVStore) List(ctx context.Context, prefix, cursor string, limit int) ([]string, string, error) {
	all := make([]string, 0, len(m.data))

	for key := range m.data {
		if strings.HasPrefix(key, prefix) && key > cursor {
			all = append(all, key)
		}
	}

	sort.Strings(all)

	if len(all) > limit {
		page := all[:limit]
		return page, page[limit-1], nil
	}

	return all, "", nil
}

func (m *mockKVStore) Close() error {
	return nil
}

// TestNewCache 测试 NewCache 函数.
func TestNewCache(t *testing.T) {
	mockStore := newMockKVStore()
	cache := cache.NewCache(mockStore)

	if cache == nil {
		t.Fatal("NewCache returned nil")
	}
}

// TestCache_Get 测试 Get 方法.
func TestCache_Get(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	// 测试获取不存在的键
	_, err := cache.Get[badgeEntry](ctx, c, "nonexistent")
	if err == nil {
		t.Error("Expected error for nonexistent key")
	}

	// 设置测试数据
	entry := badgeEntry{Status: "verified", SVG: "<svg/>", Width: 124}

	err = cache.Set(ctx, c, "badge:a-1", entry, 0)
	if err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	// 获取存在的键
	got, err := cache.Get[badgeEntry](ctx, c, "badge:a-1")
	if err != nil {
		t.Fatalf("Failed to get cache: %v", err)
	}

	if got.Status != entry.Status || got.SVG != entry.SVG || got.Width != entry.Width {
		t.Errorf("Retrieved entry %+v does not match original %+v", got, entry)
	}
}

// TestCache_Set 测试 Set 方法.
func TestCache_Set(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	entry := badgeEntry{Status: "unverified", SVG: "<svg/>", Width: 138}

	err := cache.Set(ctx, c, "badge:a-2", entry, 0)
	if err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	// 验证数据是否正确存储
	data, exists := mockStore.data["badge:a-2"]
	if !exists {
		t.Fatal("Data not stored in mock store")
	}

	if len(data) == 0 {
		t.Error("Stored data is empty")
	}
}

// TestCache_Delete 测试 Delete 方法.
func TestCache_Delete(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	// 设置数据
	entry := badgeEntry{Status: "tampered", SVG: "<svg/>", Width: 120}

	err := cache.Set(ctx, c, "badge:a-3", entry, 0)
	if err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	// 验证存在
	exists, err := c.Exists(ctx, "badge:a-3")
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}

	if !exists {
		t.Error("Key should exist before deletion")
	}

	// 删除数据
	err = c.Delete(ctx, "badge:a-3")
	if err != nil {
		t.Fatalf("Failed to delete cache: %v", err)
	}

	// 验证不存在
	exists, err = c.Exists(ctx, "badge:a-3")
	if err != nil {
		t.Fatalf("Failed to check existence after deletion: %v", err)
	}

	if exists {
		t.Error("Key should not exist after deletion")
	}
}

// TestGetOrSet 测试 GetOrSet 方法.
func TestGetOrSet(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	callCount := 0
	getter := func() (badgeEntry, error) {
		callCount++
		return badgeEntry{Status: "verified", SVG: "<svg/>", Width: 124}, nil
	}

	// 第一次调用，应该调用getter
	e1, err := cache.GetOrSet(ctx, c, "badge:a-5", getter, 0)
	if err != nil {
		t.Fatalf("Failed to get or set: %v", err)
	}

	if callCount != 1 {
		t.Errorf("Expected getter to be called once, got %d", callCount)
	}

	// 第二次调用，应该从缓存获取
	e2, err := cache.GetOrSet(ctx, c, "badge:a-5", getter, 0)
	if err != nil {
		t.Fatalf("Failed to get or set: %v", err)
	}

	if callCount != 1 {
		t.Errorf("Expected getter to be called only once, got %d", callCount)
	}

	// 验证两次结果相同
	if e1.Status != e2.Status || e1.SVG != e2.SVG || e1.Width != e2.Width {
		t.Errorf("Results don't match: %+v vs %+v", e1, e2)
	}
}

// TestGetOrSet_GetterError 测试 GetOrSet 方法中 getter 返回错误的情况.
func TestGetOrSet_GetterError(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	getter := func() (badgeEntry, error) {
		return badgeEntry{}, errors.New("getter error")
	}

	_, err := cache.GetOrSet(ctx, c, "badge:error", getter, 0)
	if err == nil {
		t.Error("Expected error from getter")
	}

	if err.Error() != "getter error" {
		t.Errorf("Expected 'getter error', got '%s'", err.Error())
	}
}

// TestCache_ClearPrefix 测试 ClearPrefix 方法.
func TestCache_ClearPrefix(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	// 设置多个数据，混入一个不同前缀的键
	for i := range 5 {
		key := fmt.Sprintf("badge:a-%d", i)

		err := cache.Set(ctx, c, key, badgeEntry{Status: "verified"}, 0)
		if err != nil {
			t.Fatalf("Failed to set cache for %s: %v", key, err)
		}
	}

	err := cache.Set(ctx, c, "other:keep", badgeEntry{Status: "verified"}, 0)
	if err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	// 清空 badge: 前缀
	err = c.ClearPrefix(ctx, "badge:")
	if err != nil {
		t.Fatalf("Failed to clear cache: %v", err)
	}

	// 验证前缀内被清空，前缀外保留
	if len(mockStore.data) != 1 {
		t.Errorf("Expected 1 item after clear, got %d", len(mockStore.data))
	}

	if _, ok := mockStore.data["other:keep"]; !ok {
		t.Error("Key outside prefix should survive ClearPrefix")
	}
}

// TestCache_GenericTypes 测试缓存对不同数据类型的支持.
func TestCache_GenericTypes(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	// 测试字符串类型
	err := cache.Set(ctx, c, "string:key", "hello world", 0)
	if err != nil {
		t.Fatalf("Failed to set string: %v", err)
	}

	str, err := cache.Get[string](ctx, c, "string:key")
	if err != nil {
		t.Fatalf("Failed to get string: %v", err)
	}

	if str != "hello world" {
		t.Errorf("Expected 'hello world', got '%s'", str)
	}

	// 测试整数类型
	err = cache.Set(ctx, c, "int:key", 42, 0)
	if err != nil {
		t.Fatalf("Failed to set int: %v", err)
	}

	num, err := cache.Get[int](ctx, c, "int:key")
	if err != nil {
		t.Fatalf("Failed to get int: %v", err)
	}

	if num != 42 {
		t.Errorf("Expected 42, got %d", num)
	}

	// 测试切片类型
	slice := []string{"a", "b", "c"}

	err = cache.Set(ctx, c, "slice:key", slice, 0)
	if err != nil {
		t.Fatalf("Failed to set slice: %v", err)
	}

	retrievedSlice, err := cache.Get[[]string](ctx, c, "slice:key")
	if err != nil {
		t.Fatalf("Failed to get slice: %v", err)
	}

	if len(retrievedSlice) != len(slice) {
		t.Errorf("Slice length mismatch: expected %d, got %d", len(slice), len(retrievedSlice))
	}

	for i, v := range slice {
		if retrievedSlice[i] != v {
			t.Errorf("Slice element %d mismatch: expected %s, got %s", i, v, retrievedSlice[i])
		}
	}
}
