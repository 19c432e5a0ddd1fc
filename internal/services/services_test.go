package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"skyjobs/internal/appErrors"
	"skyjobs/internal/auth"
	"skyjobs/internal/email"
	"skyjobs/internal/logger"
	"skyjobs/internal/models"
	"skyjobs/internal/repositories"
	"skyjobs/internal/services/dto"
	"skyjobs/internal/storage"
	"skyjobs/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	services *ServiceContainer
	mail     *email.LogProvider
	store    *storage.LocalStorage
	tokens   *auth.TokenManager
}

func newFixture(t *testing.T, authOpts AuthOptions) *fixture {
	t.Helper()

	templates, err := email.NewTemplateManager()
	require.NoError(t, err)
	mail := email.NewLogProvider(email.Config{AppName: "skyjobs"}, templates)

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	container := NewServiceContainer(Dependencies{
		Tokens:  tokens,
		Email:   mail,
		Storage: store,
		Auth:    authOpts,
		Upload:  UploadOptions{MaxSize: 1024, MaxFiles: 5},
	})

	t.Cleanup(func() {
		_ = container.AuthService.Wait(context.Background())
	})

	return &fixture{
		db:       testutil.NewTestDB(t),
		services: container,
		mail:     mail,
		store:    store,
		tokens:   tokens,
	}
}

func memFile(name, content string) dto.UploadFile {
	return dto.UploadFile{
		Name:        name,
		Size:        int64(len(content)),
		ContentType: "image/png",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func assertAppError(t *testing.T, err error, want *appErrors.AppError) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, want)
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestRegister_CreatesUnconfirmedUserAndSendsLink(t *testing.T) {
	f := newFixture(t, AuthOptions{BaseURL: "http://example.test/"})
	ctx := context.Background()

	user, err := f.services.AuthService.Register(ctx, f.db, &dto.RegisterRequest{
		Username: "alice", Password: "secret1", Email: "alice@example.com", AccountType: "client",
	})
	require.NoError(t, err)
	assert.False(t, user.Confirmed)
	require.NotNil(t, user.ConfirmationToken)
	assert.Len(t, *user.ConfirmationToken, 32)
	assert.NotEqual(t, "secret1", user.Password)

	assert.Eventually(t, func() bool { return len(f.mail.Sent()) == 1 }, time.Second, 10*time.Millisecond)
	sent := f.mail.Sent()[0]
	assert.Equal(t, []string{"alice@example.com"}, sent.To)
	assert.Contains(t, sent.Body, "http://example.test/api/confirm/"+*user.ConfirmationToken)
}

// gatedProvider держит отправку писем до закрытия release
type gatedProvider struct {
	*email.LogProvider
	release chan struct{}
}

func (p *gatedProvider) SendConfirmation(ctx context.Context, to, username, link string) error {
	<-p.release
	return p.LogProvider.SendConfirmation(ctx, to, username, link)
}

func TestRegister_WaitDrainsConfirmationEmails(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	mail := &gatedProvider{LogProvider: f.mail, release: make(chan struct{})}
	svc := NewAuthService(repositories.NewUserRepository(), f.tokens, mail, AuthOptions{})

	_, err := svc.Register(context.Background(), f.db, &dto.RegisterRequest{
		Username: "alice", Password: "secret1", Email: "alice@example.com", AccountType: "client",
	})
	require.NoError(t, err)

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Wait(short), context.DeadlineExceeded)
	assert.Empty(t, f.mail.Sent())

	close(mail.release)
	require.NoError(t, svc.Wait(context.Background()))
	assert.Len(t, f.mail.Sent(), 1)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	req := &dto.RegisterRequest{Username: "alice", Password: "secret1", Email: "a@example.com", AccountType: "pilot"}

	_, err := f.services.AuthService.Register(ctx, f.db, req)
	require.NoError(t, err)

	_, err = f.services.AuthService.Register(ctx, f.db, req)
	assertAppError(t, err, appErrors.ErrUsernameTaken)
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()

	var ok, taken atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.services.AuthService.Register(ctx, f.db, &dto.RegisterRequest{
				Username: "racer", Password: "secret1", Email: "r@example.com", AccountType: "client",
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, appErrors.ErrUsernameTaken):
				taken.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, 4, taken.Load())
}

func TestRegister_RejectsUnknownAccountType(t *testing.T) {
	f := newFixture(t, AuthOptions{})

	for _, accountType := range []string{"robot", "admin"} {
		_, err := f.services.AuthService.Register(context.Background(), f.db, &dto.RegisterRequest{
			Username: "alice", Password: "secret1", Email: "a@example.com", AccountType: accountType,
		})
		assertAppError(t, err, appErrors.ErrValidationFailed)
	}

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLogin(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "pilot1", "secret1", models.AccountTypePilot)

	t.Run("success", func(t *testing.T) {
		resp, err := f.services.AuthService.Login(ctx, f.db, &dto.LoginRequest{Username: "pilot1", Password: "secret1"})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.Equal(t, "pilot", resp.User.AccountType)
		assert.EqualValues(t, 3600, resp.ExpiresIn)

		claims, err := f.tokens.ParseToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "pilot1", claims.Username)
		assert.Equal(t, "pilot", claims.AccountType)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.services.AuthService.Login(ctx, f.db, &dto.LoginRequest{Username: "ghost", Password: "secret1"})
		assertAppError(t, err, appErrors.ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.services.AuthService.Login(ctx, f.db, &dto.LoginRequest{Username: "pilot1", Password: "nope"})
		assertAppError(t, err, appErrors.ErrInvalidCredentials)
	})
}

func TestLogin_RequireConfirmation(t *testing.T) {
	ctx := context.Background()
	req := &dto.RegisterRequest{Username: "newbie", Password: "secret1", Email: "n@example.com", AccountType: "client"}

	gated := newFixture(t, AuthOptions{RequireConfirmation: true})
	_, err := gated.services.AuthService.Register(ctx, gated.db, req)
	require.NoError(t, err)
	_, err = gated.services.AuthService.Login(ctx, gated.db, &dto.LoginRequest{Username: "newbie", Password: "secret1"})
	assertAppError(t, err, appErrors.ErrUserNotConfirmed)

	open := newFixture(t, AuthOptions{})
	_, err = open.services.AuthService.Register(ctx, open.db, req)
	require.NoError(t, err)
	_, err = open.services.AuthService.Login(ctx, open.db, &dto.LoginRequest{Username: "newbie", Password: "secret1"})
	assert.NoError(t, err)
}

func TestConfirmEmail(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()

	user, err := f.services.AuthService.Register(ctx, f.db, &dto.RegisterRequest{
		Username: "bob", Password: "secret1", Email: "b@example.com", AccountType: "client",
	})
	require.NoError(t, err)
	token := *user.ConfirmationToken

	require.NoError(t, f.services.AuthService.ConfirmEmail(ctx, f.db, token))

	stored, err := f.services.AuthService.GetUserByID(ctx, f.db, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Confirmed)
	assert.Nil(t, stored.ConfirmationToken)

	// Токен стирается при подтверждении, повторная попытка дает Invalid token
	err = f.services.AuthService.ConfirmEmail(ctx, f.db, token)
	assertAppError(t, err, appErrors.ErrConfirmationInvalid)

	err = f.services.AuthService.ConfirmEmail(ctx, f.db, "")
	assertAppError(t, err, appErrors.ErrConfirmationInvalid)
}

func TestConfirmEmail_AlreadyConfirmedWithToken(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	token := "legacy-token"
	require.NoError(t, f.db.Create(&models.User{
		Username: "legacy", Password: "h", Email: "l@example.com",
		AccountType: models.AccountTypeClient, Confirmed: true, ConfirmationToken: &token,
	}).Error)

	err := f.services.AuthService.ConfirmEmail(context.Background(), f.db, token)
	assertAppError(t, err, appErrors.ErrAccountAlreadyConfirmed)
}

func TestConfirmEmail_ConcurrentSingleSuccess(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()

	user, err := f.services.AuthService.Register(ctx, f.db, &dto.RegisterRequest{
		Username: "carol", Password: "secret1", Email: "c@example.com", AccountType: "pilot",
	})
	require.NoError(t, err)

	var successes atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.services.AuthService.ConfirmEmail(ctx, f.db, *user.ConfirmationToken) == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, successes.Load())
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "dave", "secret1", models.AccountTypeClient)

	token, err := f.tokens.GenerateToken(user.ID, user.Email, user.Username, string(user.AccountType))
	require.NoError(t, err)

	got, err := f.services.AuthService.Authenticate(ctx, f.db, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.services.AuthService.Authenticate(ctx, f.db, "garbage")
	assertAppError(t, err, appErrors.ErrInvalidToken)

	ghostToken, err := f.tokens.GenerateToken(9999, "g@example.com", "ghost", "client")
	require.NoError(t, err)
	_, err = f.services.AuthService.Authenticate(ctx, f.db, ghostToken)
	assertAppError(t, err, appErrors.ErrInvalidToken)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()

	created, err := f.services.AuthService.EnsureAdmin(ctx, f.db, "root", "secret1", "root@example.com")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.services.AuthService.EnsureAdmin(ctx, f.db, "root", "secret1", "root@example.com")
	require.NoError(t, err)
	assert.False(t, created)

	resp, err := f.services.AuthService.Login(ctx, f.db, &dto.LoginRequest{Username: "root", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.AccountType)
}

// ---------------------------------------------------------------------------
// Jobs
// ---------------------------------------------------------------------------

func TestCreateJob_TransactionalWithImagesFolder(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)

	job, err := f.services.JobService.CreateJob(ctx, f.db, owner.ID, &dto.CreateJobRequest{
		Title:  "Roof survey",
		Budget: 250,
		Polygons: []json.RawMessage{
			json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`),
			json.RawMessage(`{"type":"Point","coordinates":[0,0]}`),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, job.Status)

	folders, err := f.services.JobService.GetFolders(ctx, f.db, job.ID)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, models.DefaultFolderName, folders[0].Name)

	detail, err := f.services.JobService.GetJobDetail(ctx, f.db, job.ID)
	require.NoError(t, err)
	require.Len(t, detail.Polygons, 2)
	assert.JSONEq(t, `{"type":"Point","coordinates":[0,0]}`, string(detail.Polygons[1].GeoJSON))
}

func TestCreateJob_RollsBackOnFailure(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()

	// Несуществующий владелец нарушает внешний ключ, в БД не должно остаться ничего
	_, err := f.services.JobService.CreateJob(ctx, f.db, 4242, &dto.CreateJobRequest{
		Title:    "Orphan",
		Polygons: []json.RawMessage{json.RawMessage(`{"type":"Point"}`)},
	})
	assertAppError(t, err, appErrors.DatabaseError(nil))

	var jobs, folders, polygons int64
	require.NoError(t, f.db.Model(&models.Job{}).Count(&jobs).Error)
	require.NoError(t, f.db.Model(&models.Folder{}).Count(&folders).Error)
	require.NoError(t, f.db.Model(&models.Polygon{}).Count(&polygons).Error)
	assert.Zero(t, jobs)
	assert.Zero(t, folders)
	assert.Zero(t, polygons)
}

// failingPolygonRepo падает на вставке полигона с номером failAt (с 1)
type failingPolygonRepo struct {
	repositories.PolygonRepository
	failAt int
	calls  int
}

func (r *failingPolygonRepo) Create(db *gorm.DB, polygon *models.Polygon) error {
	r.calls++
	if r.calls == r.failAt {
		return errors.New("polygon insert failed")
	}
	return r.PolygonRepository.Create(db, polygon)
}

func TestCreateJob_RollsBackAfterPartialInserts(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)

	polygons := &failingPolygonRepo{PolygonRepository: repositories.NewPolygonRepository(), failAt: 2}
	svc := NewJobService(
		repositories.NewJobRepository(),
		polygons,
		repositories.NewFolderRepository(),
		repositories.NewFileRepository(),
		f.store,
	)

	// Работа, папка и первый полигон вставлены, второй полигон падает
	_, err := svc.CreateJob(ctx, f.db, owner.ID, &dto.CreateJobRequest{
		Title: "Half done",
		Polygons: []json.RawMessage{
			json.RawMessage(`{"type":"Point","coordinates":[0,0]}`),
			json.RawMessage(`{"type":"Point","coordinates":[1,1]}`),
		},
	})
	assertAppError(t, err, appErrors.DatabaseError(nil))
	assert.Equal(t, 2, polygons.calls)

	var jobs, folders, rows int64
	require.NoError(t, f.db.Model(&models.Job{}).Count(&jobs).Error)
	require.NoError(t, f.db.Model(&models.Folder{}).Count(&folders).Error)
	require.NoError(t, f.db.Model(&models.Polygon{}).Count(&rows).Error)
	assert.Zero(t, jobs)
	assert.Zero(t, folders)
	assert.Zero(t, rows)
}

func TestCreateJob_WithoutPolygons(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)

	job, err := f.services.JobService.CreateJob(ctx, f.db, owner.ID, &dto.CreateJobRequest{Title: "Bare job"})
	require.NoError(t, err)
	assert.Empty(t, job.Polygons)

	var polygons int64
	require.NoError(t, f.db.Model(&models.Polygon{}).Where("job_id = ?", job.ID).Count(&polygons).Error)
	assert.Zero(t, polygons)

	var folders []models.Folder
	require.NoError(t, f.db.Where("job_id = ?", job.ID).Find(&folders).Error)
	require.Len(t, folders, 1)
	assert.Equal(t, models.DefaultFolderName, folders[0].Name)
}

func TestCreateJob_LogsOwnerOnce(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)

	prev := logger.GetLogger()
	var buf bytes.Buffer
	logger.SetLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { logger.SetLogger(prev) })

	ctx := logger.WithUserID(context.Background(), owner.ID)
	_, err := f.services.JobService.CreateJob(ctx, f.db, owner.ID, &dto.CreateJobRequest{Title: "Logged"})
	require.NoError(t, err)

	var line string
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(l, `"msg":"Job created"`) {
			line = l
		}
	}
	require.NotEmpty(t, line, buf.String())
	assert.Equal(t, 1, strings.Count(line, `"user_id"`))
	assert.Contains(t, line, `"owner_id"`)
}

func TestCreateJob_Validation(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)

	_, err := f.services.JobService.CreateJob(ctx, f.db, owner.ID, &dto.CreateJobRequest{Title: "  "})
	assertAppError(t, err, appErrors.ErrValidationFailed)

	_, err = f.services.JobService.CreateJob(ctx, f.db, owner.ID, &dto.CreateJobRequest{
		Title:    "Bad polygon",
		Polygons: []json.RawMessage{json.RawMessage(`[1,2,3]`)},
	})
	assertAppError(t, err, appErrors.ErrValidationFailed)
}

func TestJobQueries(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)
	other := testutil.CreateUser(t, f.db, "client2", "secret1", models.AccountTypeClient)
	job, folder := testutil.CreateJob(t, f.db, owner.ID, "Field scan")

	jobs, err := f.services.JobService.GetJobList(ctx, f.db, owner.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)

	jobs, err = f.services.JobService.GetJobList(ctx, f.db, other.ID)
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)

	_, err = f.services.JobService.GetJobDetail(ctx, f.db, 999)
	assertAppError(t, err, appErrors.ErrJobNotFound)

	_, err = f.services.JobService.GetFolders(ctx, f.db, 999)
	assertAppError(t, err, appErrors.ErrJobNotFound)

	files, err := f.services.JobService.GetFiles(ctx, f.db, job.ID, folder.ID)
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)

	_, err = f.services.JobService.GetFiles(ctx, f.db, job.ID, folder.ID+100)
	assertAppError(t, err, appErrors.ErrFolderNotFound)
}

func TestCreateFolder(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)
	job, _ := testutil.CreateJob(t, f.db, owner.ID, "Field scan")

	folder, err := f.services.JobService.CreateFolder(ctx, f.db, job.ID, " Thermal ")
	require.NoError(t, err)
	assert.Equal(t, "Thermal", folder.Name)
	assert.Equal(t, job.ID, folder.JobID)

	_, err = f.services.JobService.CreateFolder(ctx, f.db, job.ID, "")
	assert.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).HTTPCode)

	_, err = f.services.JobService.CreateFolder(ctx, f.db, 999, "Thermal")
	assertAppError(t, err, appErrors.ErrJobNotFound)
}

func TestDeleteJob(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)
	stranger := testutil.CreateUser(t, f.db, "client2", "secret1", models.AccountTypeClient)
	job, folder := testutil.CreateJob(t, f.db, owner.ID, "Field scan")

	result, err := f.services.UploadService.UploadJobFiles(ctx, f.db, job.ID, folder.ID, []dto.UploadFile{memFile("a.png", "png")})
	require.NoError(t, err)
	require.Len(t, result.Uploaded, 1)
	stored := filepath.Join(f.store.BasePath(), filepath.FromSlash(result.Uploaded[0].Path))
	require.FileExists(t, stored)

	err = f.services.JobService.DeleteJob(ctx, f.db, job.ID, stranger)
	assertAppError(t, err, appErrors.ErrForbidden)

	require.NoError(t, f.services.JobService.DeleteJob(ctx, f.db, job.ID, owner))

	_, err = f.services.JobService.GetJobDetail(ctx, f.db, job.ID)
	assertAppError(t, err, appErrors.ErrJobNotFound)

	var files int64
	require.NoError(t, f.db.Model(&models.File{}).Count(&files).Error)
	assert.Zero(t, files)
	assert.NoFileExists(t, stored)

	err = f.services.JobService.DeleteJob(ctx, f.db, job.ID, owner)
	assertAppError(t, err, appErrors.ErrJobNotFound)
}

// ---------------------------------------------------------------------------
// Uploads
// ---------------------------------------------------------------------------

func TestUploadJobFiles_AllSucceed(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)
	job, folder := testutil.CreateJob(t, f.db, owner.ID, "Field scan")

	result, err := f.services.UploadService.UploadJobFiles(ctx, f.db, job.ID, folder.ID, []dto.UploadFile{
		memFile("one.PNG", "1111"),
		memFile(`C:\photos\two.jpg`, "2222"),
	})
	require.NoError(t, err)
	require.Len(t, result.Uploaded, 2)
	assert.Empty(t, result.Failed)
	assert.False(t, result.Partial())

	first := result.Uploaded[0]
	assert.Equal(t, "one.PNG", first.Name)
	assert.True(t, strings.HasPrefix(first.Path, "jobs/"))
	assert.True(t, strings.HasSuffix(first.Path, ".png"))
	assert.Equal(t, "/uploads/"+first.Path, first.URL)
	assert.Equal(t, "two.jpg", result.Uploaded[1].Name)
	assert.NotEqual(t, first.Path, result.Uploaded[1].Path)

	data, err := os.ReadFile(filepath.Join(f.store.BasePath(), filepath.FromSlash(first.Path)))
	require.NoError(t, err)
	assert.Equal(t, "1111", string(data))

	listed, err := f.services.JobService.GetFiles(ctx, f.db, job.ID, folder.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.URL, listed[0].URL)
}

func TestUploadJobFiles_PartialAndAllFailed(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)
	job, folder := testutil.CreateJob(t, f.db, owner.ID, "Field scan")
	big := strings.Repeat("x", 2048)

	result, err := f.services.UploadService.UploadJobFiles(ctx, f.db, job.ID, folder.ID, []dto.UploadFile{
		memFile("ok.png", "fine"),
		memFile("huge.png", big),
	})
	require.NoError(t, err)
	assert.True(t, result.Partial())
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "huge.png", result.Failed[0].Name)
	assert.Equal(t, string(appErrors.CodeFileTooLarge), result.Failed[0].Code)

	result, err = f.services.UploadService.UploadJobFiles(ctx, f.db, job.ID, folder.ID, []dto.UploadFile{memFile("huge.png", big)})
	require.NoError(t, err)
	assert.True(t, result.AllFailed())
	assert.Equal(t, 400, result.FirstFailure().HTTPCode)
}

func TestUploadJobFiles_Errors(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)
	job, folder := testutil.CreateJob(t, f.db, owner.ID, "Field scan")

	_, err := f.services.UploadService.UploadJobFiles(ctx, f.db, job.ID, folder.ID, nil)
	assertAppError(t, err, appErrors.ErrNoFiles)

	_, err = f.services.UploadService.UploadJobFiles(ctx, f.db, job.ID, folder.ID+1, []dto.UploadFile{memFile("a.png", "a")})
	assertAppError(t, err, appErrors.ErrFolderNotFound)

	tooMany := make([]dto.UploadFile, 6)
	for i := range tooMany {
		tooMany[i] = memFile("a.png", "a")
	}
	_, err = f.services.UploadService.UploadJobFiles(ctx, f.db, job.ID, folder.ID, tooMany)
	assert.Equal(t, 400, appErrors.FromError(err).HTTPCode)
}

type failingFileRepo struct {
	repositories.FileRepository
	failName string
}

func (r *failingFileRepo) Create(db *gorm.DB, file *models.File) error {
	if file.Name == r.failName {
		return errors.New("insert failed")
	}
	return r.FileRepository.Create(db, file)
}

func TestUploadJobFiles_CompensatesStoredObject(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "client1", "secret1", models.AccountTypeClient)
	job, folder := testutil.CreateJob(t, f.db, owner.ID, "Field scan")

	svc := NewUploadService(
		repositories.NewFolderRepository(),
		&failingFileRepo{FileRepository: repositories.NewFileRepository(), failName: "bad.png"},
		repositories.NewCertFileRepository(),
		f.store,
		UploadOptions{MaxSize: 1024},
	)

	result, err := svc.UploadJobFiles(ctx, f.db, job.ID, folder.ID, []dto.UploadFile{
		memFile("good.png", "g"),
		memFile("bad.png", "b"),
	})
	require.NoError(t, err)
	require.Len(t, result.Uploaded, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, string(appErrors.CodeDatabaseError), result.Failed[0].Code)

	entries, err := os.ReadDir(filepath.Join(f.store.BasePath(), "jobs"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "объект неудачной записи должен быть удален")
}

func TestCertFiles(t *testing.T) {
	f := newFixture(t, AuthOptions{})
	ctx := context.Background()
	pilot := testutil.CreateUser(t, f.db, "pilot1", "secret1", models.AccountTypePilot)

	certs, err := f.services.UploadService.GetCertFiles(ctx, f.db, pilot.ID)
	require.NoError(t, err)
	assert.NotNil(t, certs)
	assert.Empty(t, certs)

	result, err := f.services.UploadService.UploadCertFiles(ctx, f.db, pilot.ID, []dto.UploadFile{memFile("license.pdf", "%PDF")})
	require.NoError(t, err)
	require.Len(t, result.Uploaded, 1)
	assert.True(t, strings.HasPrefix(result.Uploaded[0].Path, "certs/"))

	certs, err = f.services.UploadService.GetCertFiles(ctx, f.db, pilot.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, "license.pdf", certs[0].Name)
	assert.Equal(t, "/uploads/"+certs[0].Path, certs[0].URL)
}

func TestFileNameHelpers(t *testing.T) {
	assert.Equal(t, "photo.jpg", sanitizeFileName("../../etc/photo.jpg"))
	assert.Equal(t, "file", sanitizeFileName(".."))
	assert.Equal(t, ".png", fileExtension("A.PNG"))
	assert.Equal(t, "", fileExtension("archive.t@r"))
	assert.Equal(t, "", fileExtension("noext"))
	assert.Equal(t, "application/octet-stream", detectContentType("noext"))
}

func TestUploadOptions_MaxRequestBytes(t *testing.T) {
	assert.EqualValues(t, 5*1024+multipartOverhead, UploadOptions{MaxSize: 1024, MaxFiles: 5}.MaxRequestBytes())
	assert.Zero(t, UploadOptions{MaxSize: 1024}.MaxRequestBytes())
}
