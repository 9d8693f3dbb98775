package handlers

import (
	"net/http"

	"mcpserver/internal/logger"
	"mcpserver/internal/schema"
	"mcpserver/internal/services"

	"github.com/gin-gonic/gin"
)

type NodeHandler struct {
	store services.NodeStore
	log   logger.Logger
}

func NewNodeHandler(store services.NodeStore, log logger.Logger) *NodeHandler {
	return &NodeHandler{
		store: store,
		log:   log.Named("nodes"),
	}
}

// Create 校验请求体并创建节点
func (h *NodeHandler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, h.log, &schema.ValidationError{Fields: []schema.FieldError{{
			Loc:  []string{"body"},
			Msg:  "unreadable request body",
			Type: schema.TypeJSONDecode,
		}}})
		return
	}

	in, err := schema.DecodeNodeCreate(body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	node, err := h.store.Create(c.Request.Context(), in.Name, in.Org)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, schema.NewNodeOut(node))
}

// Get 按 ID 获取单个节点
func (h *NodeHandler) Get(c *gin.Context) {
	id, err := schema.ParseNodeID(c.Param("node_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	node, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, schema.NewNodeOut(node))
}

// List 按 ID 升序返回所有节点
func (h *NodeHandler) List(c *gin.Context) {
	nodes, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, schema.NewNodeOutList(nodes))
}
