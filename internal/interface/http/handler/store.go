package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appstore "github.com/luoyang/bookmall/internal/application/store"
	"github.com/luoyang/bookmall/internal/interface/http/dto"
	"github.com/luoyang/bookmall/internal/interface/http/middleware"
	"github.com/luoyang/bookmall/pkg/response"
)

// StoreHandler 门店与调拨HTTP处理器
type StoreHandler struct {
	manageStoreUseCase   *appstore.ManageStoreUseCase
	transferStockUseCase *appstore.TransferStockUseCase
}

// NewStoreHandler 创建门店处理器
func NewStoreHandler(
	manageStoreUseCase *appstore.ManageStoreUseCase,
	transferStockUseCase *appstore.TransferStockUseCase,
) *StoreHandler {
	return &StoreHandler{
		manageStoreUseCase:   manageStoreUseCase,
		transferStockUseCase: transferStockUseCase,
	}
}

// CreateStore 创建门店/仓库
// @Summary      创建门店或仓库
// @Tags         门店
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateStoreRequest true "网点信息"
// @Success      201 {object} response.Response{data=dto.StoreResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/stores [post]
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req dto.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageStoreUseCase.CreateStore(c.Request.Context(), appstore.CreateStoreRequest{
		Name:    req.Name,
		Kind:    req.Kind,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &dto.StoreResponse{
		ID:      result.ID,
		Name:    result.Name,
		Kind:    result.Kind,
		Address: result.Address,
	})
}

// SetStock 设置网点库存
// @Summary      设置网点库存
// @Description  线下盘点入口,直接覆盖数量;记录不存在则创建
// @Tags         门店
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "网点ID"
// @Param        bookId path int true "图书ID"
// @Param        request body dto.SetStoreStockRequest true "库存信息"
// @Success      200 {object} response.Response{data=dto.StoreStockResponse}
// @Failure      404 {object} response.Response "网点或图书不存在"
// @Router       /api/v1/stores/{id}/stocks/{bookId} [put]
func (h *StoreHandler) SetStock(c *gin.Context) {
	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的网点ID")
		return
	}
	bookID, err := strconv.ParseUint(c.Param("bookId"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的图书ID")
		return
	}

	var req dto.SetStoreStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageStoreUseCase.SetStock(c.Request.Context(), appstore.SetStockRequest{
		StoreID:           uint(storeID),
		BookID:            uint(bookID),
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toStoreStockResponse(result))
}

// ListStock 查询网点库存
// @Summary      查询网点库存
// @Tags         门店
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "网点ID"
// @Success      200 {object} response.Response{data=[]dto.StoreStockResponse}
// @Failure      404 {object} response.Response "网点不存在"
// @Router       /api/v1/stores/{id}/stocks [get]
func (h *StoreHandler) ListStock(c *gin.Context) {
	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的网点ID")
		return
	}

	results, err := h.manageStoreUseCase.ListStock(c.Request.Context(), uint(storeID))
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.StoreStockResponse, len(results))
	for i, r := range results {
		list[i] = toStoreStockResponse(r)
	}

	response.Success(c, list)
}

// TransferStock 仓库→门店调拨
// @Summary      调拨库存
// @Description  从仓库扣减、门店增加、写调拨流水,同一事务内完成;仓库余量不足拒绝
// @Tags         门店
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.TransferStockRequest true "调拨信息"
// @Success      201 {object} response.Response{data=dto.TransferResponse}
// @Failure      400 {object} response.Response "调出方不是仓库/调入方不是门店"
// @Failure      404 {object} response.Response "网点或图书不存在"
// @Failure      409 {object} response.Response "仓库库存不足"
// @Router       /api/v1/stores/transfer-from-warehouse [post]
func (h *StoreHandler) TransferStock(c *gin.Context) {
	var req dto.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.transferStockUseCase.Execute(c.Request.Context(), appstore.TransferStockRequest{
		FromWarehouseID: req.FromWarehouseID,
		ToStoreID:       req.ToStoreID,
		BookID:          req.BookID,
		Quantity:        req.Quantity,
		ActorID:         middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &dto.TransferResponse{
		TransferID:      result.TransferID,
		FromWarehouseID: result.FromWarehouseID,
		ToStoreID:       result.ToStoreID,
		BookID:          result.BookID,
		Quantity:        result.Quantity,
		CreatedAt:       result.CreatedAt,
	})
}

func toStoreStockResponse(r *appstore.StoreStockResult) *dto.StoreStockResponse {
	return &dto.StoreStockResponse{
		StoreID:           r.StoreID,
		BookID:            r.BookID,
		Stock:             r.Stock,
		LowStockThreshold: r.LowStockThreshold,
		LowStock:          r.LowStock,
		UpdatedAt:         r.UpdatedAt,
	}
}
