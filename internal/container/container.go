package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joshua-takyi/jocky/internal/config"
	"github.com/joshua-takyi/jocky/internal/helpers"
	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator helpers.TokenValidator

	UserService     *services.UserService
	VenueService    *services.VenuesService
	EventService    *services.EventService
	BookingService  *services.BookingService
	RequestService  *services.RequestService
	ArtistService   *services.ArtistService
	PoolService     *services.PoolService
	MessageService  *services.MessageService
	CalendarService *services.CalendarService
}

// Repos is the storage behind the services. Events, bookings, venues and
// profiles live in Supabase; artists, requests, pools and messages in Mongo.
type Repos struct {
	Users    models.UserRepo
	Venues   models.VenuesRepo
	Events   models.EventRepo
	Bookings models.BookingRepo
	Requests models.RequestRepo
	Artists  models.ArtistRepo
	Pool     models.PoolRepo
	Messages models.MessageRepo
}

// StoreRepos wires Repos to the Supabase and Mongo clients.
func StoreRepos(supabaseClient *supabase.Client, mongoDBClient *mongo.Client, supaURL, supaKey string) Repos {
	supa := models.SupabaseNewRepo(supabaseClient, supaURL, supaKey)
	mongo := models.MongodbNewRepo(mongoDBClient)
	return Repos{
		Users:    supa,
		Venues:   supa,
		Events:   supa,
		Bookings: supa,
		Requests: mongo,
		Artists:  mongo,
		Pool:     mongo,
		Messages: mongo,
	}
}

// NewContainer builds the services. cld may be nil, in which case rider
// uploads are disabled.
func NewContainer(cfg *config.Config, logger *slog.Logger, validator helpers.TokenValidator, repos Repos, cld *cloudinary.Cloudinary) *Container {
	var uploader helpers.Uploader
	if cld != nil {
		uploader = helpers.NewCloudinaryUploader(cld, helpers.AttachmentsFolder)
	}
	// One guard for every service that mutates events.
	guard := models.NewGuard()

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Validator:       validator,
		UserService:     services.NewUserService(repos.Users),
		VenueService:    services.NewVenuesService(repos.Venues),
		EventService:    services.NewEventService(repos.Events, repos.Bookings, uploader, guard, logger),
		BookingService:  services.NewBookingService(repos.Bookings, repos.Events),
		RequestService:  services.NewRequestService(repos.Requests, repos.Events, repos.Bookings, repos.Artists, guard, logger),
		ArtistService:   services.NewArtistService(repos.Artists),
		PoolService:     services.NewPoolService(repos.Pool, repos.Artists),
		MessageService:  services.NewMessageService(repos.Messages, repos.Events),
		CalendarService: services.NewCalendarService(repos.Events, repos.Venues, cfg.TodayAnchor),
	}
}
