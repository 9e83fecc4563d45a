package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/aslobodnik/safenotes/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	superAdminWallet = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
	orgAdminWallet   = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	strangerWallet   = "0x2222222222222222222222222222222222222222"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.Migrate(db))
	return db
}

// newTestRouter 构造测试路由，超级管理员列表固定
func newTestRouter(t *testing.T, db *gorm.DB) (*gin.Engine, *logic.AdminLogic) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	adminLogic := logic.NewAdminLogic(db, []string{superAdminWallet})

	r := gin.New()
	orgHandler := NewOrganizationHandler(db, adminLogic)
	categoryHandler := NewCategoryHandler(db, adminLogic)

	r.GET("/api/v1/organizations/:slug", orgHandler.GetOrganization)
	r.POST("/api/v1/organizations", orgHandler.CreateOrganization)
	r.POST("/api/v1/organizations/:slug/categories", categoryHandler.CreateCategory)

	return r, adminLogic
}

func doRequest(r *gin.Engine, method, path, wallet, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if wallet != "" {
		req.Header.Set(walletHeader, wallet)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrganizationAuthorization(t *testing.T) {
	r, _ := newTestRouter(t, newTestDB(t))
	body := `{"name": "ENS DAO", "slug": "ens"}`

	// 缺少身份头
	w := doRequest(r, http.MethodPost, "/api/v1/organizations", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 非超级管理员
	w = doRequest(r, http.MethodPost, "/api/v1/organizations", strangerWallet, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 超级管理员
	w = doRequest(r, http.MethodPost, "/api/v1/organizations", superAdminWallet, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	// 重复创建
	w = doRequest(r, http.MethodPost, "/api/v1/organizations", superAdminWallet, body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetOrganizationNotFound(t *testing.T) {
	r, _ := newTestRouter(t, newTestDB(t))

	w := doRequest(r, http.MethodGet, "/api/v1/organizations/missing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCategoryAuthorization(t *testing.T) {
	db := newTestDB(t)
	r, adminLogic := newTestRouter(t, db)

	organization := &model.OrganizationModel{Name: "ENS DAO", Slug: "ens"}
	require.NoError(t, logic.NewOrganizationLogic(db).CreateOrganization(organization))
	_, err := adminLogic.AddOrgAdmin(organization.Id, orgAdminWallet)
	require.NoError(t, err)

	body := `{"name": "Payroll"}`

	// 陌生钱包拒绝，不泄露资源信息
	w := doRequest(r, http.MethodPost, "/api/v1/organizations/ens/categories", strangerWallet, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 组织管理员放行（大小写不敏感）
	w = doRequest(r, http.MethodPost, "/api/v1/organizations/ens/categories", strings.ToLower(orgAdminWallet), body)
	assert.Equal(t, http.StatusCreated, w.Code)

	// 超级管理员放行
	w = doRequest(r, http.MethodPost, "/api/v1/organizations/ens/categories", superAdminWallet, `{"name": "Grants"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestFormatValue(t *testing.T) {
	six := 6

	// 以太转账默认18位精度
	assert.Equal(t, "1.5", formatValue("1500000000000000000", nil))
	// 代币转账使用代币精度
	assert.Equal(t, "5", formatValue("5000000", &six))
	// 非法数字原样返回
	assert.Equal(t, "not-a-number", formatValue("not-a-number", nil))
	assert.Equal(t, "", formatValue("", nil))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, int64(3), p.TotalPage)
	assert.Equal(t, int64(45), p.Total)

	p = NewPagination(1, 20, 40)
	assert.Equal(t, int64(2), p.TotalPage)
}
