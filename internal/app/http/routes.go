package routes

import (
	"net/http"

	adminapi "calligraphy-cms/internal/api/admin"
	artistsapi "calligraphy-cms/internal/api/artists"
	authapi "calligraphy-cms/internal/api/auth"
	"calligraphy-cms/internal/api/billing"
	calendarapi "calligraphy-cms/internal/api/calendar"
	eventsapi "calligraphy-cms/internal/api/events"
	filesapi "calligraphy-cms/internal/api/files"
	"calligraphy-cms/internal/api/integrations"
	membershipapi "calligraphy-cms/internal/api/membership"
	stripewebhooks "calligraphy-cms/internal/api/stripewebhook"
	"calligraphy-cms/internal/api/users"
	worksapi "calligraphy-cms/internal/api/works"
	"calligraphy-cms/internal/app/http/middleware"
	"calligraphy-cms/internal/domain/access"
	"calligraphy-cms/internal/domain/membership"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every API handler the router mounts.
type Handlers struct {
	Auth         *authapi.Handler
	Users        *users.Handler
	Artists      *artistsapi.Handler
	Works        *worksapi.Handler
	Events       *eventsapi.Handler
	Files        *filesapi.Handler
	Membership   *membershipapi.Handler
	Calendar     *calendarapi.Handler
	Billing      *billing.Handler
	Webhook      *stripewebhooks.Handler
	Integrations *integrations.Handler
	Admin        *adminapi.Handler
}

type Deps struct {
	JWTSecret string
	UploadDir string
	Members   middleware.MemberLookup
	Handlers  Handlers
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := d.Handlers

	// raw body is needed for the signature check
	r.POST("/webhook/stripe", h.Webhook.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware(), middleware.OptionalAuth(d.JWTSecret))

	public.POST("/login", h.Auth.Login)
	public.GET("/auth/kakao", h.Auth.KakaoStart)
	public.GET("/auth/kakao/callback", h.Auth.KakaoCallback)

	public.GET("/artists", h.Artists.List)
	public.GET("/artists/:id", h.Artists.Get)

	public.GET("/gallery", h.Works.Gallery)
	public.GET("/awards", h.Works.Awards)
	public.GET("/artworks/:id", h.Works.Get)

	public.GET("/events", h.Events.ListEvents)
	public.GET("/events/:id", h.Events.GetEvent)
	public.POST("/events/:id/register", h.Events.Register)
	public.GET("/exhibitions", h.Events.ListExhibitions)
	public.GET("/exhibitions/:id", h.Events.GetExhibition)

	public.GET("/documents", h.Files.List)
	public.GET("/documents/:id/download", h.Files.Download)

	public.GET("/tiers", h.Membership.Tiers)

	public.GET("/calendar/traditional", h.Calendar.Traditional)
	public.GET("/calendar/month", h.Calendar.Month)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.JWTSecret), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/me", h.Users.Me)
	auth.PUT("/me/profile", h.Users.UpdateProfile)
	auth.GET("/me/payments", h.Billing.GetPaymentHistory)
	auth.POST("/change-password", h.Auth.ChangePassword)

	// Members who may pay dues (active, or expired and renewing)
	dues := auth.Group("/membership")
	dues.Use(middleware.RequireCapability(d.Members, access.CapPayDues))
	dues.POST("/dues/checkout", h.Billing.CreateDuesCheckout)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.JWTSecret), middleware.RequireRole("admin"), middleware.SanitizeAndCleanInputMiddleware())

	admin.GET("/dashboard", h.Admin.AdminDashboard)
	admin.GET("/users", h.Admin.ListAllUsers)
	admin.GET("/users/:id", h.Admin.GetUserDetails)
	admin.PUT("/users/:id/role", h.Admin.SetRole)
	admin.GET("/payments", h.Billing.ListAllPayments)

	admin.GET("/artists", h.Artists.AdminList)
	admin.GET("/artists/:id", h.Artists.AdminGet)
	admin.POST("/artists", h.Artists.Create)
	admin.PUT("/artists/:id", h.Artists.Update)
	admin.DELETE("/artists/:id", h.Artists.Delete)

	admin.GET("/artworks", h.Works.AdminList)
	admin.GET("/artworks/:id", h.Works.AdminGet)
	admin.POST("/artworks", h.Works.Create)
	admin.PUT("/artworks/:id", h.Works.Update)
	admin.DELETE("/artworks/:id", h.Works.Delete)
	admin.POST("/artworks/:id/publish", h.Works.Publish)
	admin.POST("/artworks/:id/unpublish", h.Works.Unpublish)

	admin.GET("/events", h.Events.AdminListEvents)
	admin.GET("/events/:id", h.Events.AdminGetEvent)
	admin.POST("/events", h.Events.CreateEvent)
	admin.PUT("/events/:id", h.Events.UpdateEvent)
	admin.DELETE("/events/:id", h.Events.DeleteEvent)
	admin.GET("/events/:id/registrations", h.Events.Registrations)

	admin.GET("/exhibitions", h.Events.AdminListExhibitions)
	admin.GET("/exhibitions/:id", h.Events.AdminGetExhibition)
	admin.POST("/exhibitions", h.Events.CreateExhibition)
	admin.PUT("/exhibitions/:id", h.Events.UpdateExhibition)
	admin.DELETE("/exhibitions/:id", h.Events.DeleteExhibition)

	admin.GET("/documents", h.Files.AdminList)
	admin.POST("/documents", h.Files.Upload)
	admin.PUT("/documents/:id", h.Files.UpdateMeta)
	admin.DELETE("/documents/:id", h.Files.Delete)
	admin.POST("/images", h.Files.UploadImage)

	admin.GET("/tiers", h.Membership.Tiers)
	admin.PUT("/tiers/:level", h.Membership.UpdateTier)

	admin.GET("/members", h.Membership.List)
	admin.GET("/members/stats", h.Membership.Stats)
	admin.GET("/members/:id", h.Membership.Get)
	admin.POST("/members", h.Membership.Create)
	admin.PUT("/members/:id", h.Membership.Update)
	admin.DELETE("/members/:id", h.Membership.Delete)
	admin.POST("/members/:id/approve", h.Membership.Action(membership.ActionApprove))
	admin.POST("/members/:id/suspend", h.Membership.Action(membership.ActionSuspend))
	admin.POST("/members/:id/reactivate", h.Membership.Action(membership.ActionReactivate))
	admin.POST("/members/:id/deactivate", h.Membership.Action(membership.ActionDeactivate))

	admin.GET("/unsplash/search", h.Integrations.UnsplashSearch)
	admin.POST("/unsplash/select", h.Integrations.UnsplashSelect)
	admin.GET("/geocode", h.Integrations.Geocode)
	admin.POST("/notifications", h.Integrations.Notify)
}
