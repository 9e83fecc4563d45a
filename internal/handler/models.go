package handler

import (
	"time"

	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/shopspring/decimal"
)

// 以太原生代币精度
const etherDecimals = 18

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// NewPagination 计算分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPage := total / int64(pageSize)
	if total%int64(pageSize) > 0 {
		totalPage++
	}
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}

// 组织相关响应模型

// OrganizationResponse 组织响应模型
type OrganizationResponse struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	BannerImage string    `json:"bannerImage"`
	LogoImage   string    `json:"logoImage"`
	CreatedAt   time.Time `json:"createdAt"`
}

// 钱包相关响应模型

// SafeResponse 钱包响应模型
type SafeResponse struct {
	Address        string     `json:"address"`
	OrganizationId string     `json:"organizationId"`
	Removed        bool       `json:"removed"`
	RemovedAt      *time.Time `json:"removedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// 分类相关响应模型

// CategoryResponse 分类响应模型
type CategoryResponse struct {
	Id             string    `json:"id"`
	OrganizationId string    `json:"organizationId"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
}

// 管理员相关响应模型

// OrgAdminResponse 组织管理员响应模型
type OrgAdminResponse struct {
	Id             string    `json:"id"`
	OrganizationId string    `json:"organizationId"`
	WalletAddress  string    `json:"walletAddress"`
	CreatedAt      time.Time `json:"createdAt"`
}

// 转账相关响应模型

// TransferResponse 转账响应模型，附带可读金额和分类标注
type TransferResponse struct {
	TransferId      string    `json:"transferId"`
	SafeAddress     string    `json:"safeAddress"`
	Type            string    `json:"type"`
	ExecutionDate   time.Time `json:"executionDate"`
	BlockNumber     int64     `json:"blockNumber"`
	TransactionHash string    `json:"transactionHash"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	Value           string    `json:"value"`
	HumanValue      string    `json:"humanValue"`
	TokenAddress    *string   `json:"tokenAddress"`
	TokenName       *string   `json:"tokenName"`
	TokenSymbol     *string   `json:"tokenSymbol"`
	TokenDecimals   *int      `json:"tokenDecimals"`
	TokenLogoUri    *string   `json:"tokenLogoUri"`
	CategoryId      string    `json:"categoryId,omitempty"`
	Category        string    `json:"category,omitempty"`
	Description     string    `json:"description,omitempty"`
}

// GetTransfersResponse 转账列表响应
type GetTransfersResponse struct {
	Results    []TransferResponse `json:"results"`
	Pagination Pagination         `json:"pagination"`
}

// 转换函数

// ToOrganizationResponse 将组织模型转换为响应模型
func ToOrganizationResponse(org *model.OrganizationModel) OrganizationResponse {
	return OrganizationResponse{
		Id:          org.Id,
		Name:        org.Name,
		Slug:        org.Slug,
		Description: org.Description,
		BannerImage: org.BannerImage,
		LogoImage:   org.LogoImage,
		CreatedAt:   org.CreatedAt,
	}
}

// ToOrganizationResponseList 将组织模型列表转换为响应模型列表
func ToOrganizationResponseList(orgs []model.OrganizationModel) []OrganizationResponse {
	result := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		result[i] = ToOrganizationResponse(&org)
	}
	return result
}

// ToSafeResponse 将钱包模型转换为响应模型
func ToSafeResponse(safe *model.SafeModel) SafeResponse {
	return SafeResponse{
		Address:        safe.Address,
		OrganizationId: safe.OrganizationId,
		Removed:        safe.Removed,
		RemovedAt:      safe.RemovedAt,
		CreatedAt:      safe.CreatedAt,
	}
}

// ToSafeResponseList 将钱包模型列表转换为响应模型列表
func ToSafeResponseList(safes []model.SafeModel) []SafeResponse {
	result := make([]SafeResponse, len(safes))
	for i, safe := range safes {
		result[i] = ToSafeResponse(&safe)
	}
	return result
}

// ToCategoryResponse 将分类模型转换为响应模型
func ToCategoryResponse(category *model.CategoryModel) CategoryResponse {
	return CategoryResponse{
		Id:             category.Id,
		OrganizationId: category.OrganizationId,
		Name:           category.Name,
		CreatedAt:      category.CreatedAt,
	}
}

// ToCategoryResponseList 将分类模型列表转换为响应模型列表
func ToCategoryResponseList(categories []model.CategoryModel) []CategoryResponse {
	result := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		result[i] = ToCategoryResponse(&category)
	}
	return result
}

// ToOrgAdminResponse 将管理员模型转换为响应模型
func ToOrgAdminResponse(admin *model.OrgAdminModel) OrgAdminResponse {
	return OrgAdminResponse{
		Id:             admin.Id,
		OrganizationId: admin.OrganizationId,
		WalletAddress:  admin.WalletAddress,
		CreatedAt:      admin.CreatedAt,
	}
}

// ToOrgAdminResponseList 将管理员模型列表转换为响应模型列表
func ToOrgAdminResponseList(admins []model.OrgAdminModel) []OrgAdminResponse {
	result := make([]OrgAdminResponse, len(admins))
	for i, admin := range admins {
		result[i] = ToOrgAdminResponse(&admin)
	}
	return result
}

// ToTransferResponse 将转账模型转换为响应模型
func ToTransferResponse(transfer *model.TransferModel, annotation *logic.TransferAnnotation) TransferResponse {
	response := TransferResponse{
		TransferId:      transfer.TransferId,
		SafeAddress:     transfer.SafeAddress,
		Type:            string(transfer.Type),
		ExecutionDate:   transfer.ExecutionDate,
		BlockNumber:     transfer.BlockNumber,
		TransactionHash: transfer.TransactionHash,
		From:            transfer.FromAddress,
		To:              transfer.ToAddress,
		Value:           transfer.Value,
		HumanValue:      formatValue(transfer.Value, transfer.TokenDecimals),
		TokenAddress:    transfer.TokenAddress,
		TokenName:       transfer.TokenName,
		TokenSymbol:     transfer.TokenSymbol,
		TokenDecimals:   transfer.TokenDecimals,
		TokenLogoUri:    transfer.TokenLogoUri,
	}

	if annotation != nil {
		response.CategoryId = annotation.CategoryId
		response.Category = annotation.CategoryName
		response.Description = annotation.Description
	}

	return response
}

// ToTransferResponseList 将转账模型列表转换为响应模型列表，合并分类标注
func ToTransferResponseList(transfers []model.TransferModel, annotations map[string]logic.TransferAnnotation) []TransferResponse {
	result := make([]TransferResponse, len(transfers))
	for i, transfer := range transfers {
		var annotation *logic.TransferAnnotation
		if a, ok := annotations[transfer.TransferId]; ok {
			annotation = &a
		}
		result[i] = ToTransferResponse(&transfer, annotation)
	}
	return result
}

// formatValue 将最小单位金额转换为可读金额
// 代币转账使用代币精度，以太转账使用18位精度
func formatValue(value string, tokenDecimals *int) string {
	if value == "" {
		return ""
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return value
	}

	decimals := etherDecimals
	if tokenDecimals != nil {
		decimals = *tokenDecimals
	}

	return amount.Shift(int32(-decimals)).String()
}
