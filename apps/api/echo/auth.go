package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/maischool/eduflow/core"
	"github.com/maischool/eduflow/core/user"
)

type Claims struct {
	jwt.StandardClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func GetUserClaims(conf *core.Config, usr user.User) Claims {
	now := time.Now()
	return Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   usr.Username,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(conf.JWTExpirationDelta).Unix(),
		},
		UserID: usr.ID,
		Role:   usr.Role,
	}
}

func GenerateToken(conf *core.Config, claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return signed, nil
}

type userApi struct {
	svc      user.ServiceInterface
	conf     *core.Config
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, svc user.ServiceInterface, conf *core.Config, validate *validator.Validate) {
	api := &userApi{svc: svc, conf: conf, validate: validate}

	ug := g.Group("/users")
	ug.POST("/login", api.login)
	ug.POST("/register", api.register)
}

type LoginResponse struct {
	Token string    `json:"token"`
	Role  string    `json:"role"`
	User  user.User `json:"user"`
}

func (api *userApi) login(ctx echo.Context) error {
	var req LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := req.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: usr.Role, User: usr})
}

func (api *userApi) register(ctx echo.Context) error {
	var req RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := req.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), user.NewUser{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}
