package auth_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"crewtrack/internal/auth"
	autherrors "crewtrack/internal/auth/errors"
	"crewtrack/internal/employee"
	employeeerrors "crewtrack/internal/employee/errors"
	"crewtrack/internal/shared/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	createFn     func(ctx context.Context, user *auth.User) error
	getByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (f *fakeUserRepository) Create(ctx context.Context, user *auth.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindOptions(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error { return nil }

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func activeUser(t *testing.T, password string) *auth.User {
	employeeID := uuid.New()
	return &auth.User{
		ID:         uuid.New(),
		EmployeeID: &employeeID,
		Email:      "hans.meier@example.com",
		Password:   hashPassword(t, password),
		Role:       "FOREMAN",
		Active:     true,
	}
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	assert.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	return claims
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("issues tokens with identity claims", func(t *testing.T) {
		user := activeUser(t, "s3cret-pass")
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				assert.Equal(t, "hans.meier@example.com", email)
				return user, nil
			},
		}
		emplRepo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return &employee.Employee{FullName: "Hans Meier"}, nil
			},
		}
		svc := auth.NewService(repo, emplRepo, clock.System())

		access, refresh, resp, err := svc.Login(ctx, " Hans.Meier@example.com ", "s3cret-pass")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, "FOREMAN", resp.Role)
		assert.Equal(t, "Hans Meier", resp.FullName)

		claims := parseClaims(t, access)
		assert.Equal(t, user.ID.String(), claims["user_id"])
		assert.Equal(t, user.EmployeeID.String(), claims["employee_id"])
		assert.Equal(t, "FOREMAN", claims["role"])
	})

	t.Run("honors configured token lifetimes", func(t *testing.T) {
		user := activeUser(t, "s3cret-pass")
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
		}
		fixed := clock.Fixed{T: time.Now().UTC()}
		svc := auth.NewServiceWithConfig(repo, &fakeEmployeeRepository{}, fixed, auth.Config{
			AccessTokenTTL:  30 * time.Minute,
			RefreshTokenTTL: 48 * time.Hour,
		})

		access, refresh, _, err := svc.Login(ctx, user.Email, "s3cret-pass")

		assert.NoError(t, err)
		accessClaims := parseClaims(t, access)
		assert.Equal(t, float64(fixed.T.Add(30*time.Minute).Unix()), accessClaims["exp"])
		refreshClaims := parseClaims(t, refresh)
		assert.Equal(t, float64(fixed.T.Add(48*time.Hour).Unix()), refreshClaims["exp"])
	})

	t.Run("wrong password", func(t *testing.T) {
		user := activeUser(t, "s3cret-pass")
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
		}
		svc := auth.NewService(repo, &fakeEmployeeRepository{}, clock.System())

		_, _, _, err := svc.Login(ctx, user.Email, "wrong-pass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{}, &fakeEmployeeRepository{}, clock.System())

		_, _, _, err := svc.Login(ctx, "nobody@example.com", "whatever")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		user := activeUser(t, "s3cret-pass")
		user.Active = false
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
		}
		svc := auth.NewService(repo, &fakeEmployeeRepository{}, clock.System())

		_, _, _, err := svc.Login(ctx, user.Email, "s3cret-pass")

		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("rotates the token pair", func(t *testing.T) {
		user := activeUser(t, "s3cret-pass")
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				assert.Equal(t, user.ID, id)
				return user, nil
			},
		}
		svc := auth.NewService(repo, &fakeEmployeeRepository{}, clock.System())

		_, refresh, _, err := svc.Login(ctx, user.Email, "s3cret-pass")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := svc.RefreshToken(ctx, refresh)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, user.ID.String(), resp.ID)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{}, &fakeEmployeeRepository{}, clock.System())

		_, _, _, err := svc.RefreshToken(ctx, "not-a-jwt")

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("deactivated between sessions", func(t *testing.T) {
		user := activeUser(t, "s3cret-pass")
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				deactivated := *user
				deactivated.Active = false
				return &deactivated, nil
			},
		}
		svc := auth.NewService(repo, &fakeEmployeeRepository{}, clock.System())

		_, refresh, _, err := svc.Login(ctx, user.Email, "s3cret-pass")
		assert.NoError(t, err)

		_, _, _, err = svc.RefreshToken(ctx, refresh)

		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("creates account with employee role", func(t *testing.T) {
		var created *auth.User
		repo := &fakeUserRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				created = user
				return nil
			},
		}
		emplRepo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				assert.Equal(t, employeeID, id)
				return &employee.Employee{FullName: "Hans Meier", Role: "FOREMAN"}, nil
			},
		}
		svc := auth.NewService(repo, emplRepo, clock.System())

		resp, err := svc.Register(ctx, auth.RegisterRequest{
			EmployeeID: employeeID,
			Email:      "Hans.Meier@Example.com",
			Password:   "s3cret-pass",
		})

		assert.NoError(t, err)
		assert.Equal(t, "FOREMAN", resp.Role)
		assert.Equal(t, "Hans Meier", resp.FullName)
		if assert.NotNil(t, created) {
			assert.Equal(t, "hans.meier@example.com", created.Email)
			assert.True(t, created.Active)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
		}
	})

	t.Run("invalid employee id", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{}, &fakeEmployeeRepository{}, clock.System())

		_, err := svc.Register(ctx, auth.RegisterRequest{
			EmployeeID: "not-a-uuid",
			Email:      "x@example.com",
			Password:   "s3cret-pass",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("unknown employee", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{}, &fakeEmployeeRepository{}, clock.System())

		_, err := svc.Register(ctx, auth.RegisterRequest{
			EmployeeID: employeeID,
			Email:      "x@example.com",
			Password:   "s3cret-pass",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &fakeUserRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"}
			},
		}
		emplRepo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return &employee.Employee{FullName: "Hans Meier", Role: "EMPLOYEE"}, nil
			},
		}
		svc := auth.NewService(repo, emplRepo, clock.System())

		_, err := svc.Register(ctx, auth.RegisterRequest{
			EmployeeID: employeeID,
			Email:      "hans.meier@example.com",
			Password:   "s3cret-pass",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid user id", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{}, &fakeEmployeeRepository{}, clock.System())

		_, err := svc.GetMe(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("returns profile", func(t *testing.T) {
		user := activeUser(t, "s3cret-pass")
		repo := &fakeUserRepository{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				return user, nil
			},
		}
		emplRepo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return &employee.Employee{FullName: "Hans Meier"}, nil
			},
		}
		svc := auth.NewService(repo, emplRepo, clock.System())

		resp, err := svc.GetMe(ctx, user.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, user.Email, resp.Email)
		assert.Equal(t, "Hans Meier", resp.FullName)
	})
}
