package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/avelorn/busline/internal/domain"
	redisrepo "github.com/avelorn/busline/internal/repository/redis"
	"github.com/avelorn/busline/internal/service"
	"github.com/avelorn/busline/internal/service/bookings"
	"github.com/avelorn/busline/internal/service/locks"
	"github.com/avelorn/busline/internal/service/trips"
)

type Secrets struct {
	JWT     string
	Webhook string
}

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	secrets Secrets,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/trips/:id", AuthOptional(secrets.JWT), handleGetTrip(svcs))
	r.GET("/trips/:id/availability", handleGetAvailability(svcs))

	r.POST("/seats/lock", AuthRequired(secrets.JWT), handleLockSeats(svcs, idem))
	r.POST("/seats/release", AuthRequired(secrets.JWT), handleReleaseSeats(svcs))

	r.GET("/bookings/:ref", AuthRequired(secrets.JWT), handleGetBooking(svcs))

	// Payment gateway callback, shared-secret auth
	r.POST("/payments/callback",
		WebhookSecretMiddleware(secrets.Webhook),
		handlePaymentCallback(svcs),
	)

	// Admin-API
	// TODO: add admin role check once roles land in the token
	admin := r.Group("/admin", AuthRequired(secrets.JWT))
	{
		admin.POST("/trips", handleCreateTrip(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Get trip with seat matrix
// @Param    id  path  int  true  "Trip ID"
// @Success  200  {object}  TripResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /trips/{id} [get]
func handleGetTrip(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		details, err := svcs.Trips.Details(c.Request.Context(), tripID, userIDFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		resp := toTripResponse(details.Trip, details.Matrix, details.AvailableSeats)
		// The matrix is derived per requester, so the response is private.
		writeJSONWithCache(c, http.StatusOK, resp, "private, max-age=3", true)
	}
}

// @Summary  Get availability counters
// @Param    id  path  int  true  "Trip ID"
// @Success  200  {object}  AvailabilityResponse
// @Router   /trips/{id}/availability [get]
func handleGetAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		cnt, err := svcs.Trips.Availability(c.Request.Context(), tripID)
		if err != nil {
			respondErr(c, err)
			return
		}
		resp := AvailabilityResponse{
			TripID:    tripID,
			Available: cnt.Available,
			Locked:    cnt.Locked,
			Booked:    cnt.Booked,
			Total:     cnt.Total,
		}
		writeJSONWithCache(c, http.StatusOK, resp, "public, max-age=5", true)
	}
}

// @Summary  Lock seats (idempotent)
// @Param    req body  LockSeatsRequest true "payload"
// @Header   200 {string} Idempotency-Key "echo"
// @Success  200 {object} LockSeatsResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "seats unavailable / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /seats/lock [post]
func handleLockSeats(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LockSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemLock(req.TripID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusOK,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusOK,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		rlKey := "user:" + strconv.FormatInt(userIDFrom(c), 10)

		hold, err := svcs.Locks.LockSeats(
			c.Request.Context(),
			req.TripID,
			req.Seats,
			userIDFrom(c),
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if isRateLimitedErr(err) {
				c.Header("Retry-After", "60")
				c.JSON(
					http.StatusTooManyRequests,
					ErrorResponse{Error: err.Error()},
				)
				return
			}
			respondErr(c, err)
			return
		}

		resp := LockSeatsResponse{
			LockedSeats:   hold.Seats,
			LockExpiresAt: hold.ExpiresAt,
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Release held seats
// @Param    req body  ReleaseSeatsRequest true "payload"
// @Success  204
// @Failure  404 {object} ErrorResponse
// @Router   /seats/release [post]
func handleReleaseSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReleaseSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		err := svcs.Locks.ReleaseSeats(
			c.Request.Context(),
			req.TripID,
			req.Seats,
			userIDFrom(c),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Payment gateway callback
// @Param    req body  PaymentCallbackRequest true "payload"
// @Success  201 {object} BookingResponse
// @Failure  409 {object} ErrorResponse
// @Router   /payments/callback [post]
func handlePaymentCallback(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaymentCallbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if req.Status != "success" {
			// Failed or cancelled payment frees the hold right away instead
			// of waiting out the TTL.
			_ = svcs.Locks.ReleaseSeats(
				c.Request.Context(),
				req.TripID,
				req.Seats,
				req.UserID,
			)
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}

		booking, err := svcs.Locks.CommitBooking(
			c.Request.Context(),
			req.TripID,
			req.Seats,
			req.UserID,
			req.BookingReference,
			req.AmountCents,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, toBookingResponse(*booking))
	}
}

// @Summary  Get booking by reference
// @Param    ref  path  string  true  "Booking reference"
// @Success  200 {object} BookingResponse
// @Failure  404 {object} ErrorResponse
// @Router   /bookings/{ref} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("ref")
		b, err := svcs.Bookings.GetByReference(
			c.Request.Context(),
			ref,
			userIDFrom(c),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toBookingResponse(*b))
	}
}

// @Summary  Create trip and init seats
// @Param    req body  CreateTripRequest true "payload"
// @Success  201 {object} CreateTripResponse
// @Router   /admin/trips [post]
func handleCreateTrip(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTripRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		date, err := parseDateOnly(req.TravelDate)
		if err != nil {
			badRequest(c, "invalid travel_date (YYYY-MM-DD)")
			return
		}
		created, err := svcs.Trips.PublishTrip(c.Request.Context(), domain.Trip{
			Source:        req.Source,
			Destination:   req.Destination,
			TravelDate:    date,
			DepartureTime: req.DepartureTime,
			ArrivalTime:   req.ArrivalTime,
			BusNumber:     req.BusNumber,
			Rows:          req.Rows,
			SeatsPerRow:   req.SeatsPerRow,
			FareCents:     req.FareCents,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateTripResponse{TripID: created.ID})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func isRateLimitedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "rate limited")
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var unavailable locks.SeatsUnavailableError
	if errors.As(err, &unavailable) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "seats unavailable",
			Seats: unavailable.Seats,
		})
		return
	}

	var unknown locks.UnknownSeatsError
	if errors.As(err, &unknown) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "unknown seat numbers",
			Seats: unknown.Seats,
		})
		return
	}

	switch {
	// locks service
	case errors.Is(err, locks.ErrTripNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "trip not found"})
		return
	case errors.Is(err, locks.ErrNoSeatsRequested):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no seats requested"})
		return
	case errors.Is(err, locks.ErrTooManySeats):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "too many seats requested"})
		return
	case errors.Is(err, locks.ErrLockExpired):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "lock expired"})
		return
	case errors.Is(err, locks.ErrLockOwnerMismatch):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "lock owner mismatch"})
		return
	case errors.Is(err, locks.ErrBookingConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "booking reference already used"})
		return
	// trips service
	case errors.Is(err, trips.ErrTripNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "trip not found"})
		return
	case errors.Is(err, trips.ErrTripExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "trip conflict"})
		return
	case errors.Is(err, trips.ErrInvalidTrip):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid trip"})
		return
	// bookings service
	case errors.Is(err, bookings.ErrBookingNotFound),
		errors.Is(err, bookings.ErrAccessDenied):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
