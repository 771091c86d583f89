package app

import (
	"context"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/campushub/clubs-backend/internal/adapters/config"
	"github.com/campushub/clubs-backend/internal/adapters/database/postgres"
	"github.com/campushub/clubs-backend/internal/adapters/database/redis/broadcast"
	"github.com/campushub/clubs-backend/internal/adapters/database/redis/codes"
	"github.com/campushub/clubs-backend/internal/domain/entity"
	"github.com/campushub/clubs-backend/internal/domain/service"
	"github.com/campushub/clubs-backend/pkg/logger"
	"github.com/campushub/clubs-backend/pkg/logger/types"
	"github.com/campushub/clubs-backend/pkg/smtp"
)

// App wires the storages, realtime transport and services together.
type App struct {
	Logger      *types.Logger
	Broadcaster *broadcast.Broadcaster

	UserService         *service.UserService
	ClubService         *service.ClubService
	TeamService         *service.TeamService
	MembershipService   *service.MembershipService
	PermissionService   *service.PermissionService
	NotificationService *service.NotificationService
	EventService        *service.EventService
	AttendanceService   *service.AttendanceService
	NewsService         *service.NewsService
}

func New(cfg *config.Config) (*App, error) {
	appLogger, err := logger.Named("app")
	if err != nil {
		return nil, err
	}

	userStorage := postgres.NewUserStorage(cfg.Database)
	clubStorage := postgres.NewClubStorage(cfg.Database)
	teamStorage := postgres.NewTeamStorage(cfg.Database)
	membershipStorage := postgres.NewClubMembershipStorage(cfg.Database)
	roleStorage := postgres.NewRoleMembershipStorage(cfg.Database)
	eventStorage := postgres.NewEventStorage(cfg.Database)
	eventRequestStorage := postgres.NewEventRequestStorage(cfg.Database)
	attendanceStorage := postgres.NewAttendanceStorage(cfg.Database)
	newsStorage := postgres.NewNewsStorage(cfg.Database)
	newsRequestStorage := postgres.NewNewsRequestStorage(cfg.Database)
	notificationStorage := postgres.NewNotificationStorage(cfg.Database)

	broadcaster := broadcast.NewBroadcaster(cfg.Redis)
	emailCodes := codes.NewStorage(cfg.CodesRedis, "emails")
	checkInCodes := codes.NewStorage(cfg.CodesRedis, "checkin")
	smtpClient := smtp.NewClient(cfg.SMTPDialer)

	permissionService := service.NewPermissionService(userStorage, roleStorage)
	notificationService := service.NewNotificationService(appLogger, notificationStorage, userStorage, broadcaster)

	eventLogger, err := logger.Named("events")
	if err != nil {
		return nil, err
	}
	eventService := service.NewEventService(
		eventLogger,
		eventStorage,
		eventRequestStorage,
		roleStorage,
		clubStorage,
		permissionService,
		notificationService,
		broadcaster,
	)

	attendanceLogger, err := logger.Named("attendance")
	if err != nil {
		return nil, err
	}
	attendanceService := service.NewAttendanceService(
		attendanceLogger,
		attendanceStorage,
		eventStorage,
		userStorage,
		permissionService,
		checkInCodes,
		smtpClient,
		viper.GetString("service.passes.email"),
	)

	newsLogger, err := logger.Named("news")
	if err != nil {
		return nil, err
	}
	newsService := service.NewNewsService(
		newsLogger,
		newsStorage,
		newsRequestStorage,
		roleStorage,
		permissionService,
		notificationService,
		broadcaster,
	)

	return &App{
		Logger:              appLogger,
		Broadcaster:         broadcaster,
		UserService:         service.NewUserService(userStorage, emailCodes, smtpClient),
		ClubService:         service.NewClubService(clubStorage),
		TeamService:         service.NewTeamService(teamStorage),
		MembershipService:   service.NewMembershipService(membershipStorage, roleStorage),
		PermissionService:   permissionService,
		NotificationService: notificationService,
		EventService:        eventService,
		AttendanceService:   attendanceService,
		NewsService:         newsService,
	}, nil
}

// Start runs the background schedulers and mirrors warnings and errors to the
// staff realtime channel.
func (a *App) Start() {
	logger.Log.Info("App starting")

	if viper.GetBool("settings.logging.broadcast-to-staff") {
		level := zapcore.Level(viper.GetInt("settings.logging.broadcast-log-level"))
		logger.SetLogHook(func(log types.Log) {
			if log.Level < level {
				return
			}
			err := a.Broadcaster.BroadcastToSystemRole(
				context.Background(),
				string(entity.SystemRoleStaff),
				"logs",
				log.Level.String(),
				log,
			)
			if err != nil {
				logger.Log.Debugf("failed to broadcast log entry: %v", err)
			}
		})
	}

	a.AttendanceService.StartPassScheduler()
}
