package router

import (
	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/handler"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler) {
	rg.POST("/signup", h.SignUp)
	rg.POST("/signin", h.SignIn)
}

func GenerationRouter(rg *gin.RouterGroup, h *handler.GenerationHandler, limit gin.HandlerFunc) {
	rg.POST("/generate", limit, h.Generate)
}

func LibraryRouter(rg *gin.RouterGroup, h *handler.LibraryHandler) {
	rg.GET("", h.List)
	rg.POST("/save", h.Save)
}

func FeedbackRouter(rg *gin.RouterGroup, h *handler.FeedbackHandler) {
	rg.POST("", h.Submit)
}

func StyleRouter(rg *gin.RouterGroup, h *handler.StyleHandler, limit gin.HandlerFunc) {
	rg.POST("/analyze", limit, h.Analyze)
	rg.GET("/profile", h.Profile)
}

func ProfileRouter(rg *gin.RouterGroup, h *handler.ProfileHandler) {
	rg.GET("", h.Get)
	rg.PUT("", h.Update)
}

func ComplianceRouter(rg *gin.RouterGroup, h *handler.ComplianceHandler) {
	rg.POST("/review", h.Review)
}
