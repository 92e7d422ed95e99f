package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	minio "github.com/minio/minio-go/v7"

	"github.com/strixun/modvault/pkg/configs"
	"github.com/strixun/modvault/pkg/internal/badge"
	"github.com/strixun/modvault/pkg/internal/crypto/envelope"
	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
	"github.com/strixun/modvault/pkg/internal/repository"
	"github.com/strixun/modvault/pkg/internal/storage/kv"
	"github.com/strixun/modvault/pkg/internal/types"
)

// memBlobStore 内存对象存储，支持模拟删除失败.
type memBlobStore struct {
	objects    map[string]memBlob
	failRemove bool
}

type memBlob struct {
	data      []byte
	encrypted bool
	format    string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: make(map[string]memBlob)}
}

func (m *memBlobStore) PutBlob(ctx context.Context, key string, data []byte, encrypted bool, format string) error {
	m.objects[key] = memBlob{data: data, encrypted: encrypted, format: format}
	return nil
}

func (m *memBlobStore) GetBlob(ctx context.Context, key string) ([]byte, minio.ObjectInfo, error) {
	blob, ok := m.objects[key]
	if !ok {
		return nil, minio.ObjectInfo{}, fmt.Errorf("blob %s not found", key)
	}

	info := minio.ObjectInfo{
		Key:          key,
		Size:         int64(len(blob.data)),
		UserMetadata: map[string]string{"Format": blob.format, "Encrypted": fmt.Sprintf("%t", blob.encrypted)},
	}

	return blob.data, info, nil
}

func (m *memBlobStore) RemoveBlob(ctx context.Context, key string) error {
	if m.failRemove {
		return errors.New("simulated remove failure")
	}

	delete(m.objects, key)

	return nil
}

func testConfig() *configs.AppConfig {
	return &configs.AppConfig{
		KV: configs.KVConfig{ScanPageSize: 10, ScanPageLimit: 4},
		Crypto: configs.CryptoConfig{
			SigningSecret:   "test-signing-secret",
			SignatureSpace:  "strixun",
			LegacyUnkeyedOK: true,
		},
		Badge:  configs.BadgeConfig{Label: "integrity", Style: "flat", CacheTTL: time.Minute},
		Events: configs.EventsConfig{Enabled: false},
	}
}

func newTestService(t *testing.T) (*ArtifactService, *memBlobStore) {
	t.Helper()

	store, err := kv.NewMemoryKV(context.Background(), nil)
	if err != nil {
		t.Fatalf("Failed to create memory KV: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	blobs := newMemBlobStore()

	return New(blobs, store, nil, testConfig()), blobs
}

func owner() *model.Principal {
	return &model.Principal{ID: "u-owner", BearerToken: "token-T"}
}

func uploadMeta() types.UploadMetadata {
	return types.UploadMetadata{Version: "1.0.0", Name: "Thermal Drill", Visibility: "public"}
}

func mustUpload(t *testing.T, svc *ArtifactService, p *model.Principal, payload []byte) *model.ArtifactVersion {
	t.Helper()

	v, err := svc.UploadVersion(context.Background(), p, "a-1", "drill.jar", payload, uploadMeta())
	if err != nil {
		t.Fatalf("UploadVersion failed: %v", err)
	}

	return v
}

func publishArtifact(t *testing.T, svc *ArtifactService) {
	t.Helper()

	admin := &model.Principal{ID: "u-admin", Admin: true}
	if _, err := svc.PatchArtifact(context.Background(), admin, "a-1", types.PatchArtifactRequest{Status: "published"}); err != nil {
		t.Fatalf("PatchArtifact failed: %v", err)
	}
}

// TestUploadDownloadValidateRoundTrip 上传明文 → 下载还原 → 自检通过.
func TestUploadDownloadValidateRoundTrip(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()
	p := owner()
	payload := []byte("hello-mod-v1")

	v := mustUpload(t, svc, p, payload)
	publishArtifact(t, svc)

	if v.Signature == "" {
		t.Fatal("Upload should compute a signature")
	}

	if v.EncryptionFormat != model.EncryptionBinaryV5 {
		t.Errorf("Token upload should store canonical envelope, got %s", v.EncryptionFormat)
	}

	// 落库的必须是密文，不能是明文
	stored := blobs.objects[v.StorageKey]
	if string(stored.data) == string(payload) {
		t.Error("Stored blob must not be the raw plaintext")
	}

	// 下载还原明文并带回签名
	res, err := svc.DownloadVersion(ctx, p, "a-1", v.VersionID)
	if err != nil {
		t.Fatalf("DownloadVersion failed: %v", err)
	}

	if string(res.Data) != string(payload) {
		t.Errorf("Downloaded %q, want %q", res.Data, payload)
	}

	if res.Signature != v.Signature {
		t.Errorf("Download signature %q, want %q", res.Signature, v.Signature)
	}

	// 自检：原始字节匹配
	check, err := svc.ValidateVersion(ctx, p, "a-1", v.VersionID, payload)
	if err != nil {
		t.Fatalf("ValidateVersion failed: %v", err)
	}

	if !check.Validated {
		t.Error("Validate with original bytes should pass")
	}

	if check.SubmittedDigest != check.ExpectedDigest {
		t.Errorf("Digests should match: %q vs %q", check.SubmittedDigest, check.ExpectedDigest)
	}
}

// TestValidateTamperedBytes 自检提交被篡改的字节 → validated=false.
func TestValidateTamperedBytes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := owner()

	v := mustUpload(t, svc, p, []byte("hello-mod-v1"))
	publishArtifact(t, svc)

	check, err := svc.ValidateVersion(ctx, p, "a-1", v.VersionID, []byte("hello-mod-v2"))
	if err != nil {
		t.Fatalf("ValidateVersion failed: %v", err)
	}

	if check.Validated {
		t.Error("Validate with tampered bytes should fail")
	}

	if check.SubmittedDigest == check.ExpectedDigest {
		t.Error("Tampered submission must produce a different digest")
	}
}

// TestUploadEncryptedInbound 调用方预加密的上传：服务端先解密、签明文、再规范重编码.
func TestUploadEncryptedInbound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := owner()
	payload := []byte("pre-encrypted-mod")

	sealed, err := envelope.Encode(payload, p.BearerToken)
	if err != nil {
		t.Fatalf("envelope.Encode failed: %v", err)
	}

	meta := uploadMeta()
	meta.Encrypted = true

	v, err := svc.UploadVersion(ctx, p, "a-1", "drill.jar", sealed, meta)
	if err != nil {
		t.Fatalf("UploadVersion failed: %v", err)
	}

	publishArtifact(t, svc)

	res, err := svc.DownloadVersion(ctx, p, "a-1", v.VersionID)
	if err != nil {
		t.Fatalf("DownloadVersion failed: %v", err)
	}

	if string(res.Data) != string(payload) {
		t.Errorf("Downloaded %q, want %q", res.Data, payload)
	}

	// 上传密文与错误令牌：解密失败是调用方错误
	badPrincipal := &model.Principal{ID: "u-owner", BearerToken: "wrong-token"}
	if _, err := svc.UploadVersion(ctx, badPrincipal, "a-1", "drill.jar", sealed, meta); !errors.Is(err, errs.ErrDecryption) {
		t.Errorf("Expected ErrDecryption with mismatched token, got %v", err)
	}
}

// TestDownloadEncryptedAnonymous 密文版本 + 匿名请求 → 401 而非密文泄露.
func TestDownloadEncryptedAnonymous(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := owner()

	v := mustUpload(t, svc, p, []byte("secret-bytes"))
	publishArtifact(t, svc)

	if _, err := svc.DownloadVersion(ctx, nil, "a-1", v.VersionID); !errors.Is(err, errs.ErrTokenRequired) {
		t.Errorf("Expected ErrTokenRequired for anonymous download of ciphertext, got %v", err)
	}
}

// TestBadgeAnonymousOptimistic 无令牌徽标：签名存在即 verified，
// 即使底层密文已被破坏（乐观路径不触碰 blob）.
func TestBadgeAnonymousOptimistic(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()
	p := owner()

	v := mustUpload(t, svc, p, []byte("hello-mod-v1"))
	publishArtifact(t, svc)

	// 破坏底层 blob
	blobs.objects[v.StorageKey] = memBlob{data: []byte("garbage"), encrypted: true, format: string(model.EncryptionBinaryV5)}

	svg, status, err := svc.BadgeForVersion(ctx, nil, "a-1", v.VersionID, "")
	if err != nil {
		t.Fatalf("BadgeForVersion failed: %v", err)
	}

	if status != badge.StatusVerified {
		t.Errorf("Anonymous badge should be optimistically verified, got %s", status)
	}

	if svg == "" {
		t.Error("Badge SVG should not be empty")
	}
}

// TestBadgeTokenPathsDetectsTamper 有令牌徽标做完整重验：密文被替换后
// 摘要不再匹配 → tampered.
func TestBadgeTokenPathDetectsTamper(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()
	p := owner()

	v := mustUpload(t, svc, p, []byte("hello-mod-v1"))
	publishArtifact(t, svc)

	// 用同一令牌重新封装不同内容：解密成功但签名不匹配
	forged, err := envelope.Encode([]byte("hello-mod-v2"), p.BearerToken)
	if err != nil {
		t.Fatalf("envelope.Encode failed: %v", err)
	}

	blobs.objects[v.StorageKey] = memBlob{data: forged, encrypted: true, format: string(model.EncryptionBinaryV5)}

	_, status, err := svc.BadgeForVersion(ctx, p, "a-1", v.VersionID, "flat")
	if err != nil {
		t.Fatalf("BadgeForVersion failed: %v", err)
	}

	if status != badge.StatusTampered {
		t.Errorf("Token path should detect tampering, got %s", status)
	}
}

// TestBadgeTokenPathFailsOpen 有令牌但令牌与密文不匹配：与篡改无关的
// 解密失败 fail-open 为 verified.
func TestBadgeTokenPathFailsOpen(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := owner()

	v := mustUpload(t, svc, p, []byte("hello-mod-v1"))
	publishArtifact(t, svc)

	other := &model.Principal{ID: "u-owner", BearerToken: "some-other-token"}

	_, status, err := svc.BadgeForVersion(ctx, other, "a-1", v.VersionID, "")
	if err != nil {
		t.Fatalf("BadgeForVersion failed: %v", err)
	}

	if status != badge.StatusVerified {
		t.Errorf("Unrelated decryption failure should fail open to verified, got %s", status)
	}
}

// TestBadgeNoSignatureUnverified 没有签名的版本 → unverified.
func TestBadgeNoSignatureUnverified(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := owner()

	v := mustUpload(t, svc, p, []byte("hello-mod-v1"))
	publishArtifact(t, svc)

	// 抹掉签名（模拟迁移前的存量记录）
	scope := repository.ScopeGlobal

	stored, err := svc.repo.GetVersion(ctx, scope, v.VersionID)
	if err != nil {
		t.Fatalf("GetVersion failed: %v", err)
	}

	stored.Signature = ""
	if err := svc.repo.PutVersion(ctx, scope, stored); err != nil {
		t.Fatalf("PutVersion failed: %v", err)
	}

	_, status, err := svc.BadgeForVersion(ctx, nil, "a-1", v.VersionID, "")
	if err != nil {
		t.Fatalf("BadgeForVersion failed: %v", err)
	}

	if status != badge.StatusUnverified {
		t.Errorf("Unsigned version should render unverified, got %s", status)
	}
}

// TestDeleteVersionBlobFailure blob 删除失败时元数据仍被删除，
// 后续下载返回 NotFound.
func TestDeleteVersionBlobFailure(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()
	p := owner()

	v := mustUpload(t, svc, p, []byte("hello-mod-v1"))
	publishArtifact(t, svc)

	blobs.failRemove = true

	res, err := svc.DeleteVersion(ctx, p, "a-1", v.VersionID)
	if err != nil {
		t.Fatalf("DeleteVersion failed: %v", err)
	}

	if res.BlobDeleted {
		t.Error("BlobDeleted should be false when blob delete fails")
	}

	if _, err := svc.DownloadVersion(ctx, p, "a-1", v.VersionID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Download after delete should be NotFound, got %v", err)
	}
}

// TestPrivateArtifactInvisible 私有制品对陌生人完全不可见（下载与徽标），
// 带不带令牌都一样.
func TestPrivateArtifactInvisible(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := owner()

	meta := uploadMeta()
	meta.Visibility = "private"

	v, err := svc.UploadVersion(ctx, p, "a-1", "drill.jar", []byte("hidden"), meta)
	if err != nil {
		t.Fatalf("UploadVersion failed: %v", err)
	}

	strangers := []*model.Principal{
		nil,
		{ID: "u-stranger"},
		{ID: "u-stranger", BearerToken: "some-token"},
	}

	for i, stranger := range strangers {
		if _, err := svc.DownloadVersion(ctx, stranger, "a-1", v.VersionID); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("case %d: download of private artifact should be NotFound, got %v", i, err)
		}

		if _, _, err := svc.BadgeForVersion(ctx, stranger, "a-1", v.VersionID, ""); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("case %d: badge of private artifact should be NotFound, got %v", i, err)
		}
	}

	// 所有者不受影响
	if _, err := svc.DownloadVersion(ctx, p, "a-1", v.VersionID); err != nil {
		t.Errorf("Owner download should succeed, got %v", err)
	}
}

// TestUploadAuthorization 非所有者上传：可见 → 403，不可见 → 404.
func TestUploadAuthorization(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := owner()

	mustUpload(t, svc, p, []byte("v1"))
	publishArtifact(t, svc)

	stranger := &model.Principal{ID: "u-stranger", BearerToken: "tok"}

	// 公开制品：存在性可见，越权是 403
	if _, err := svc.UploadVersion(ctx, stranger, "a-1", "drill.jar", []byte("v2"), uploadMeta()); !errors.Is(err, errs.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for stranger upload to visible artifact, got %v", err)
	}

	// 私有制品：对陌生人不可见，越权上传是 404 而非 403 或隐式覆盖
	meta := uploadMeta()
	meta.Visibility = "private"

	if _, err := svc.UploadVersion(ctx, p, "a-priv", "x.jar", []byte("p1"), meta); err != nil {
		t.Fatalf("UploadVersion failed: %v", err)
	}

	if _, err := svc.UploadVersion(ctx, stranger, "a-priv", "x.jar", []byte("p2"), uploadMeta()); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for stranger upload to invisible artifact, got %v", err)
	}

	original, err := svc.GetArtifact(ctx, p, "a-priv")
	if err != nil {
		t.Fatalf("GetArtifact failed: %v", err)
	}

	if len(original.VersionIDs) != 1 {
		t.Errorf("Original private artifact must be untouched, has %d versions", len(original.VersionIDs))
	}
}

// TestDownloadReviewStatusPolicy 审核中（pending / changes_requested）的
// 公开制品对陌生人可下载，文件是公开评审材料的一部分；草稿以及
// 私有制品的审核中版本仍只有所有者可见.
func TestDownloadReviewStatusPolicy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// 无令牌上传：落库明文，陌生人无需令牌即可下载
	p := &model.Principal{ID: "u-owner"}

	v, err := svc.UploadVersion(ctx, p, "a-1", "drill.jar", []byte("review-me"), uploadMeta())
	if err != nil {
		t.Fatalf("UploadVersion failed: %v", err)
	}

	admin := &model.Principal{ID: "u-admin", Admin: true}
	setStatus := func(status string) {
		t.Helper()

		if _, err := svc.PatchArtifact(ctx, admin, "a-1", types.PatchArtifactRequest{Status: status}); err != nil {
			t.Fatalf("PatchArtifact(%s) failed: %v", status, err)
		}
	}

	// 草稿：陌生人不可见
	if _, err := svc.DownloadVersion(ctx, nil, "a-1", v.VersionID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Draft download by stranger should be NotFound, got %v", err)
	}

	for _, status := range []string{"pending", "changes_requested"} {
		setStatus(status)

		res, err := svc.DownloadVersion(ctx, nil, "a-1", v.VersionID)
		if err != nil {
			t.Fatalf("Stranger download of public %s artifact failed: %v", status, err)
		}

		if string(res.Data) != "review-me" {
			t.Errorf("status %s: downloaded %q, want %q", status, res.Data, "review-me")
		}
	}

	// 私有 + pending：对陌生人仍不可见
	if _, err := svc.PatchArtifact(ctx, admin, "a-1", types.PatchArtifactRequest{Visibility: "private", Status: "pending"}); err != nil {
		t.Fatalf("PatchArtifact failed: %v", err)
	}

	if _, err := svc.DownloadVersion(ctx, &model.Principal{ID: "u-stranger"}, "a-1", v.VersionID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Pending private artifact should stay NotFound for stranger, got %v", err)
	}

	// 所有者随时可下
	if _, err := svc.DownloadVersion(ctx, p, "a-1", v.VersionID); err != nil {
		t.Errorf("Owner download should succeed, got %v", err)
	}
}

// TestUploadAnonymous 匿名上传：可见目标按 403 处理，未命中保持 404，
// 且绝不隐式建档.
func TestUploadAnonymous(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := owner()

	mustUpload(t, svc, p, []byte("v1"))
	publishArtifact(t, svc)

	if _, err := svc.UploadVersion(ctx, nil, "a-1", "drill.jar", []byte("v2"), uploadMeta()); !errors.Is(err, errs.ErrForbidden) {
		t.Errorf("Anonymous upload to visible artifact should be Forbidden, got %v", err)
	}

	if _, err := svc.UploadVersion(ctx, nil, "a-new", "x.jar", []byte("v1"), uploadMeta()); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Anonymous upload to unknown artifact should be NotFound, got %v", err)
	}

	// 匿名上传不留痕：目标制品未被创建
	if _, err := svc.GetArtifact(ctx, p, "a-new"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Anonymous upload must not create the artifact, got %v", err)
	}
}

// TestDeleteArtifactCascade 级联删除清掉所有版本 blob 与元数据.
func TestDeleteArtifactCascade(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()
	p := owner()

	mustUpload(t, svc, p, []byte("v1"))
	mustUpload(t, svc, p, []byte("v2"))
	publishArtifact(t, svc)

	res, err := svc.DeleteArtifact(ctx, p, "a-1")
	if err != nil {
		t.Fatalf("DeleteArtifact failed: %v", err)
	}

	if res.VersionsDeleted != 2 {
		t.Errorf("VersionsDeleted = %d, want 2", res.VersionsDeleted)
	}

	if len(blobs.objects) != 0 {
		t.Errorf("All blobs should be removed, %d remain", len(blobs.objects))
	}

	if _, err := svc.GetArtifact(ctx, p, "a-1"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Artifact should be gone, got %v", err)
	}
}
