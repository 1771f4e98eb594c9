package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/revu/internal/config"
	"github.com/user/revu/internal/handler"
	"github.com/user/revu/internal/middleware"
	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/repository"
	"github.com/user/revu/internal/router"
	"github.com/user/revu/internal/service"
	"github.com/user/revu/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// captureMailer 截住确认码邮件，供测试取码
type captureMailer struct {
	lastTo   string
	lastBody string
	fail     bool
}

func (m *captureMailer) Send(to, subject, body string) error {
	if m.fail {
		return errors.New("smtp 连接失败")
	}
	m.lastTo = to
	m.lastBody = body
	return nil
}

// code 从邮件正文中取出确认码
func (m *captureMailer) code() string {
	return strings.TrimPrefix(m.lastBody, "你的确认码：")
}

type testServer struct {
	engine *gin.Engine
	repos  *repository.Repositories
	cfg    *config.Config
	mailer *captureMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	handler.RegisterValidators()
	utils.InitCache()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	repos := repository.NewRepositories(db)
	cfg := &config.Config{
		Env:       "test",
		AppSecret: "test-secret",
		JWTExpiry: time.Hour,
	}
	mailer := &captureMailer{}

	h := &handler.Handler{
		Repos:  repos,
		Config: cfg,
		Mailer: mailer,
		Titles: service.NewTitleService(repos.Title),
		Codes:  service.NewConfirmationService(cfg.AppSecret),
	}

	engine := gin.New()
	router.RegisterRoutes(engine, h)

	return &testServer{engine: engine, repos: repos, cfg: cfg, mailer: mailer}
}

// do 发送一个 JSON 请求
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

// seedUser 直接建号并签发 Token
func (s *testServer) seedUser(t *testing.T, username, role string) (*model.User, string) {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, s.repos.User.Create(user, ""))
	token, err := middleware.GenerateToken(user, s.cfg.AppSecret, s.cfg.JWTExpiry)
	require.NoError(t, err)
	return user, token
}

// seedTitle 直接建作品
func (s *testServer) seedTitle(t *testing.T, name string, year int) *model.Title {
	t.Helper()
	title := &model.Title{Name: name, Year: year}
	require.NoError(t, s.repos.Title.Create(title))
	return title
}

// ==================== 注册与换码 ====================

func TestSignupAndTokenExchange(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"username": "alice", "email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", s.mailer.lastTo)

	var signupData map[string]string
	decode(t, w, &signupData)
	assert.Equal(t, "alice", signupData["username"])

	// 确认码换 Token
	w = s.do(t, http.MethodPost, "/api/v1/auth/token", "",
		gin.H{"username": "alice", "confirmation_code": s.mailer.code()})
	require.Equal(t, http.StatusOK, w.Code)

	var tokenData map[string]string
	decode(t, w, &tokenData)
	require.NotEmpty(t, tokenData["token"])

	// 拿到的 Token 可以访问本人资料
	w = s.do(t, http.MethodGet, "/api/v1/users/me", tokenData["token"], nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me model.User
	decode(t, w, &me)
	assert.Equal(t, "alice", me.Username)
}

func TestSignupIdempotent(t *testing.T) {
	s := newTestServer(t)

	body := gin.H{"username": "alice", "email": "alice@example.com"}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/auth/signup", "", body).Code)
	// 同一 (username, email) 再次注册幂等成功，重发确认码
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/auth/signup", "", body).Code)
}

func TestSignupRejectsReservedUsername(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{"me", "Me", "ME", "mE"} {
		w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
			gin.H{"username": name, "email": "valid@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code, "保留用户名 %q 必须被拒绝", name)
	}
}

func TestSignupRejectsMismatchedPairing(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"username": "alice", "email": "alice@example.com"}).Code)

	w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"username": "alice", "email": "other@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"username": "bob", "email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupMailFailureIsFatal(t *testing.T) {
	s := newTestServer(t)
	s.mailer.fail = true

	w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"username": "alice", "email": "alice@example.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTokenExchangeErrors(t *testing.T) {
	s := newTestServer(t)

	// 用户不存在
	w := s.do(t, http.MethodPost, "/api/v1/auth/token", "",
		gin.H{"username": "ghost", "confirmation_code": "whatever"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 错误的码
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"username": "alice", "email": "alice@example.com"}).Code)
	w = s.do(t, http.MethodPost, "/api/v1/auth/token", "",
		gin.H{"username": "alice", "confirmation_code": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaleCodeRejectedAfterStateChange(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"username": "alice", "email": "alice@example.com"}).Code)
	staleCode := s.mailer.code()

	// 签发后用户状态变化（这里改密码），旧码必须失效
	user, err := s.repos.User.FindByUsername("alice")
	require.NoError(t, err)
	require.NoError(t, s.repos.User.SetPassword(user.ID, "new-password"))

	w := s.do(t, http.MethodPost, "/api/v1/auth/token", "",
		gin.H{"username": "alice", "confirmation_code": staleCode})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==================== 目录 ====================

func TestCategoryWriteGating(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.seedUser(t, "carol", model.RoleUser)
	_, adminToken := s.seedUser(t, "root", model.RoleAdmin)

	body := gin.H{"name": "电影", "slug": "movies"}

	// 匿名 401，普通用户 403，管理员 201
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/v1/categories", "", body).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/v1/categories", userToken, body).Code)
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/categories", adminToken, body).Code)

	// 重复 slug 409
	assert.Equal(t, http.StatusConflict,
		s.do(t, http.MethodPost, "/api/v1/categories", adminToken, gin.H{"name": "电影二", "slug": "movies"}).Code)

	// 读取公开
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/categories", "", nil).Code)
}

func TestCategoryUpdateNotAllowed(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser(t, "root", model.RoleAdmin)
	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/api/v1/categories", adminToken, gin.H{"name": "电影", "slug": "movies"}).Code)

	// 分类和体裁不支持更新
	assert.Equal(t, http.StatusMethodNotAllowed,
		s.do(t, http.MethodPatch, "/api/v1/categories/movies", adminToken, gin.H{"name": "改名"}).Code)
	assert.Equal(t, http.StatusMethodNotAllowed,
		s.do(t, http.MethodPut, "/api/v1/categories/movies", adminToken, gin.H{"name": "改名"}).Code)
}

func TestTitleYearValidation(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser(t, "root", model.RoleAdmin)

	thisYear := time.Now().Year()

	// 未来年份拒绝
	w := s.do(t, http.MethodPost, "/api/v1/titles", adminToken,
		gin.H{"name": "未来作品", "year": thisYear + 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 当前年份和历史年份接受
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/titles", adminToken,
		gin.H{"name": "今年作品", "year": thisYear}).Code)
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/titles", adminToken,
		gin.H{"name": "七武士", "year": 1954}).Code)
}

func TestTitleWithCategoryAndGenres(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser(t, "root", model.RoleAdmin)

	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/api/v1/categories", adminToken, gin.H{"name": "电影", "slug": "movies"}).Code)
	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/api/v1/genres", adminToken, gin.H{"name": "剧情", "slug": "drama"}).Code)

	w := s.do(t, http.MethodPost, "/api/v1/titles", adminToken, gin.H{
		"name": "七武士", "year": 1954, "category": "movies", "genre": []string{"drama"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var title model.Title
	decode(t, w, &title)
	require.NotNil(t, title.Category)
	assert.Equal(t, "movies", title.Category.Slug)
	require.Len(t, title.Genres, 1)
	assert.Equal(t, "drama", title.Genres[0].Slug)
	assert.Nil(t, title.Rating)

	// 未知 slug 400
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/titles", adminToken,
		gin.H{"name": "另一部", "year": 1960, "genre": []string{"nope"}}).Code)
}

// ==================== 评论 ====================

func TestReviewLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.seedUser(t, "alice", model.RoleUser)
	title := s.seedTitle(t, "七武士", 1954)
	base := fmt.Sprintf("/api/v1/titles/%d/reviews", title.ID)

	// 匿名不能发表
	assert.Equal(t, http.StatusUnauthorized,
		s.do(t, http.MethodPost, base, "", gin.H{"text": "好", "score": 9}).Code)

	// 发表成功，作者由服务端绑定
	w := s.do(t, http.MethodPost, base, aliceToken, gin.H{"text": "好", "score": 9})
	require.Equal(t, http.StatusCreated, w.Code)
	var review model.Review
	decode(t, w, &review)
	assert.Equal(t, "alice", review.Author)

	// 同一作者同一作品第二条 409
	assert.Equal(t, http.StatusConflict,
		s.do(t, http.MethodPost, base, aliceToken, gin.H{"text": "再评", "score": 5}).Code)

	// 不存在的作品 404
	assert.Equal(t, http.StatusNotFound,
		s.do(t, http.MethodPost, "/api/v1/titles/9999/reviews", aliceToken, gin.H{"text": "x", "score": 5}).Code)

	// 匿名可以读
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, base, "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, fmt.Sprintf("%s/%d", base, review.ID), "", nil).Code)
}

func TestReviewScoreBounds(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser(t, "alice", model.RoleUser)
	title := s.seedTitle(t, "七武士", 1954)
	base := fmt.Sprintf("/api/v1/titles/%d/reviews", title.ID)

	// 边界 1 和 10 接受
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, base, token, gin.H{"text": "低", "score": 1}).Code)
	_, bobToken := s.seedUser(t, "bob", model.RoleUser)
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, base, bobToken, gin.H{"text": "高", "score": 10}).Code)

	// 越界拒绝
	_, carolToken := s.seedUser(t, "carol", model.RoleUser)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, base, carolToken, gin.H{"text": "x", "score": 0}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, base, carolToken, gin.H{"text": "x", "score": 11}).Code)
}

func TestReviewOwnershipRules(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.seedUser(t, "alice", model.RoleUser)
	_, bobToken := s.seedUser(t, "bob", model.RoleUser)
	_, modToken := s.seedUser(t, "mod", model.RoleModerator)
	title := s.seedTitle(t, "七武士", 1954)
	base := fmt.Sprintf("/api/v1/titles/%d/reviews", title.ID)

	w := s.do(t, http.MethodPost, base, aliceToken, gin.H{"text": "好", "score": 9})
	require.Equal(t, http.StatusCreated, w.Code)
	var review model.Review
	decode(t, w, &review)
	path := fmt.Sprintf("%s/%d", base, review.ID)

	// 非作者、非审核员、非管理员 403
	assert.Equal(t, http.StatusForbidden,
		s.do(t, http.MethodPatch, path, bobToken, gin.H{"text": "改", "score": 5}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, bobToken, nil).Code)

	// 作者本人可以改
	w = s.do(t, http.MethodPatch, path, aliceToken, gin.H{"text": "改过", "score": 7})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Review
	decode(t, w, &updated)
	assert.Equal(t, 7, updated.Score)
	// 发布时间不可变
	assert.Equal(t, review.PubDate.Unix(), updated.PubDate.Unix())

	// 审核员可以删
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, modToken, nil).Code)
}

func TestTitleRatingAggregation(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.seedUser(t, "alice", model.RoleUser)
	_, bobToken := s.seedUser(t, "bob", model.RoleUser)
	title := s.seedTitle(t, "七武士", 2020)
	titlePath := fmt.Sprintf("/api/v1/titles/%d", title.ID)
	base := titlePath + "/reviews"

	// 无评论时 rating 为 null
	var fetched model.Title
	w := s.do(t, http.MethodGet, titlePath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &fetched)
	assert.Nil(t, fetched.Rating)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, base, aliceToken, gin.H{"text": "好", "score": 8}).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, base, bobToken, gin.H{"text": "一般", "score": 4}).Code)

	// 两条评论后均分 6.0（写入会使缓存失效）
	w = s.do(t, http.MethodGet, titlePath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &fetched)
	require.NotNil(t, fetched.Rating)
	assert.InDelta(t, 6.0, *fetched.Rating, 0.001)
}

// ==================== 留言 ====================

func TestCommentPathScoping(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.seedUser(t, "alice", model.RoleUser)
	first := s.seedTitle(t, "七武士", 1954)
	second := s.seedTitle(t, "罗生门", 1950)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/titles/%d/reviews", first.ID), aliceToken,
		gin.H{"text": "好", "score": 9})
	require.Equal(t, http.StatusCreated, w.Code)
	var review model.Review
	decode(t, w, &review)

	// 评论存在但挂在别的作品上，按 404 处理
	wrongPath := fmt.Sprintf("/api/v1/titles/%d/reviews/%d/comments", second.ID, review.ID)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, wrongPath, "", nil).Code)
	assert.Equal(t, http.StatusNotFound,
		s.do(t, http.MethodPost, wrongPath, aliceToken, gin.H{"text": "同感"}).Code)

	// 正确路径可用
	rightPath := fmt.Sprintf("/api/v1/titles/%d/reviews/%d/comments", first.ID, review.ID)
	w = s.do(t, http.MethodPost, rightPath, aliceToken, gin.H{"text": "同感"})
	require.Equal(t, http.StatusCreated, w.Code)
	var comment model.Comment
	decode(t, w, &comment)
	assert.Equal(t, "alice", comment.Author)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, rightPath, "", nil).Code)
}

func TestCommentOwnershipRules(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.seedUser(t, "alice", model.RoleUser)
	_, bobToken := s.seedUser(t, "bob", model.RoleUser)
	_, adminToken := s.seedUser(t, "root", model.RoleAdmin)
	title := s.seedTitle(t, "七武士", 1954)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/titles/%d/reviews", title.ID), aliceToken,
		gin.H{"text": "好", "score": 9})
	require.Equal(t, http.StatusCreated, w.Code)
	var review model.Review
	decode(t, w, &review)

	base := fmt.Sprintf("/api/v1/titles/%d/reviews/%d/comments", title.ID, review.ID)
	w = s.do(t, http.MethodPost, base, bobToken, gin.H{"text": "不同意"})
	require.Equal(t, http.StatusCreated, w.Code)
	var comment model.Comment
	decode(t, w, &comment)
	path := fmt.Sprintf("%s/%d", base, comment.ID)

	// 非作者 403；作者和管理员可以改删
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPatch, path, aliceToken, gin.H{"text": "改"}).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, path, bobToken, gin.H{"text": "改过"}).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, adminToken, nil).Code)
}

// ==================== 用户 ====================

func TestUserAdminGating(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.seedUser(t, "carol", model.RoleUser)
	_, adminToken := s.seedUser(t, "root", model.RoleAdmin)

	// 他人资料仅管理员可见
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/users", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/users", userToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/users", adminToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/users/root", userToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/users/carol", adminToken, nil).Code)

	// 管理员建号可以指定角色
	w := s.do(t, http.MethodPost, "/api/v1/users", adminToken,
		gin.H{"username": "mod", "email": "mod@example.com", "role": "moderator"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.User
	decode(t, w, &created)
	assert.Equal(t, model.RoleModerator, created.Role)

	// 重名 409
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/v1/users", adminToken,
		gin.H{"username": "mod", "email": "mod2@example.com"}).Code)

	// 管理员提权
	w = s.do(t, http.MethodPatch, "/api/v1/users/carol", adminToken, gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	var elevated model.User
	decode(t, w, &elevated)
	assert.Equal(t, model.RoleAdmin, elevated.Role)
}

func TestMeProfile(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser(t, "carol", model.RoleUser)

	// 未认证 401
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/users/me", "", nil).Code)

	// 本人可读可改，role 写入被忽略
	w := s.do(t, http.MethodPatch, "/api/v1/users/me", token,
		gin.H{"bio": "书虫", "role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	var me model.User
	decode(t, w, &me)
	assert.Equal(t, "书虫", me.Bio)
	assert.Equal(t, model.RoleUser, me.Role)

	// me 不支持删除
	assert.Equal(t, http.StatusMethodNotAllowed, s.do(t, http.MethodDelete, "/api/v1/users/me", token, nil).Code)
}

func TestProfileUpdateInvalidatesCode(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"username": "alice", "email": "alice@example.com"}).Code)
	firstCode := s.mailer.code()

	// 先换一次拿到 Token
	w := s.do(t, http.MethodPost, "/api/v1/auth/token", "",
		gin.H{"username": "alice", "confirmation_code": firstCode})
	require.Equal(t, http.StatusOK, w.Code)
	var tokenData map[string]string
	decode(t, w, &tokenData)

	// 重新申请确认码，再改资料
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"username": "alice", "email": "alice@example.com"}).Code)
	staleCode := s.mailer.code()
	require.Equal(t, http.StatusOK,
		s.do(t, http.MethodPatch, "/api/v1/users/me", tokenData["token"], gin.H{"bio": "改了"}).Code)

	// 改资料之后旧码失效
	w = s.do(t, http.MethodPost, "/api/v1/auth/token", "",
		gin.H{"username": "alice", "confirmation_code": staleCode})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
