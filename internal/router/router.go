package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "vet-booking/docs"
	"vet-booking/internal/adapters/auth/jwtauth"
	mem "vet-booking/internal/adapters/storage/memory"
	pg "vet-booking/internal/adapters/storage/postgres"
	"vet-booking/internal/config"
	"vet-booking/internal/domain/admins"
	"vet-booking/internal/domain/appointments"
	"vet-booking/internal/domain/availability"
	"vet-booking/internal/domain/clients"
	"vet-booking/internal/domain/contacts"
	"vet-booking/internal/domain/posts"
	"vet-booking/internal/domain/professionals"
	"vet-booking/internal/domain/services"
	"vet-booking/internal/middleware"
	"vet-booking/internal/platform/logger"
)

type Options struct {
	Config config.Config
	Logger logger.Logger // nil => Nop

	// Opcional: si viene, usa Postgres. Si no, in-memory (Store, o uno nuevo).
	DB    *sql.DB
	Store *mem.Store

	// Opcional: rate limit de login compartido entre instancias.
	Redis *redis.Client

	// Opcional: si no viene, se arma con JWT_SECRET / ADMIN_TOKEN_TTL.
	Tokens *jwtauth.Manager

	// Opcional: reloj de la agenda (tests con fechas fijas).
	Now func() time.Time
}

// App es el grafo de módulos ya armado. cmd/api usa Appointments para los recordatorios.
type App struct {
	Handler      http.Handler
	Appointments *appointments.Service
	Location     *time.Location
}

type repos struct {
	services      services.Repository
	professionals professionals.Repository
	clients       clients.Repository
	appointments  appointments.Repository
	admins        admins.Repository
	posts         posts.Repository
	contacts      contacts.Repository
}

func NewRouter(opts Options) (http.Handler, error) {
	app, err := Build(opts)
	if err != nil {
		return nil, err
	}
	return app.Handler, nil
}

func Build(opts Options) (*App, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	tokens := opts.Tokens
	if tokens == nil {
		secret := cfg.JWTSecret
		if secret == "" {
			if secret, err = config.RandomSecret(); err != nil {
				return nil, err
			}
			log.Warn("JWT_SECRET not set, using a random secret; admin sessions end on restart", nil)
		}
		tokens, err = jwtauth.New(jwtauth.Config{Secret: secret, TTL: cfg.TokenTTL, Issuer: cfg.AppName})
		if err != nil {
			return nil, err
		}
	}

	rp := newRepos(opts)

	// Services por módulo
	servicesMgr := services.NewManager(rp.services)
	professionalsSvc := professionals.NewService(rp.professionals, servicesMgr)
	availabilitySvc := availability.NewService(servicesMgr, rp.appointments, professionalsSvc)
	clientsSvc := clients.NewService(rp.clients)
	appointmentsSvc := appointments.NewService(rp.appointments, servicesMgr, professionalsSvc, loc).WithClock(opts.Now)
	adminsSvc := admins.NewService(rp.admins, tokens, cfg.BcryptCost)
	postsSvc := posts.NewService(rp.posts)
	contactsSvc := contacts.NewService(rp.contacts)

	if cfg.AdminUsername != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		created, err := adminsSvc.Seed(ctx, cfg.AdminUsername, cfg.AdminPassword)
		cancel()
		if err != nil {
			return nil, err
		}
		if created {
			log.Info("admin seeded", map[string]any{"username": cfg.AdminUsername})
		}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(middleware.DefaultCORSPolicy(cfg.CORSAllowedOrigins)))

	r.Use(middleware.AuthContext(tokens))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	availability.RegisterRoutes(r, availabilitySvc, log)
	services.RegisterRoutes(r, servicesMgr, log)
	professionals.RegisterRoutes(r, professionalsSvc, log)
	appointments.RegisterRoutes(r, appointmentsSvc, log)
	clients.RegisterRoutes(r, clientsSvc, log)
	admins.RegisterRoutes(r, adminsSvc, log, loginLimiter(cfg, opts.Redis, log))
	posts.RegisterRoutes(r, postsSvc, log)
	contacts.RegisterRoutes(r, contactsSvc, log)

	return &App{Handler: r, Appointments: appointmentsSvc, Location: loc}, nil
}

func newRepos(opts Options) repos {
	if db := opts.DB; db != nil {
		return repos{
			services:      pg.NewServicesRepo(db),
			professionals: pg.NewProfessionalsRepo(db),
			clients:       pg.NewClientsRepo(db),
			appointments:  pg.NewAppointmentsRepo(db),
			admins:        pg.NewAdminsRepo(db),
			posts:         pg.NewPostsRepo(db),
			contacts:      pg.NewContactsRepo(db),
		}
	}

	store := opts.Store
	if store == nil {
		store = mem.NewStore()
	}
	return repos{
		services:      mem.NewServicesRepo(store),
		professionals: mem.NewProfessionalsRepo(store),
		clients:       mem.NewClientsRepo(store),
		appointments:  mem.NewAppointmentsRepo(store),
		admins:        mem.NewAdminsRepo(store),
		posts:         mem.NewPostsRepo(store),
		contacts:      mem.NewContactsRepo(store),
	}
}

// loginLimiter usa Redis si hay cliente (fail-open si Redis cae); si no, ventana en memoria.
// Límite <= 0 desactiva el rate limit.
func loginLimiter(cfg config.Config, rdb *redis.Client, log logger.Logger) func(http.Handler) http.Handler {
	if cfg.LoginRateLimit <= 0 {
		return nil
	}
	if rdb != nil {
		l := middleware.NewRedisLimiter(rdb, cfg.LoginRateLimit, time.Minute, cfg.AppName+":ratelimit:login")
		return middleware.RateLimit(l, log, true)
	}
	return middleware.RateLimit(middleware.NewMemoryLimiter(cfg.LoginRateLimit, time.Minute), log, false)
}
