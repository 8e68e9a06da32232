package service

import (
	"os"
	"testing"
	"time"

	"github.com/ku-unplugged/livelog/database"
	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

var sentMails []*gomail.Message

func setup() {
	os.Setenv("LIVELOG_BCRYPT_MIN_COST", "true")

	sentMails = nil
	sendMail = func(m *gomail.Message) error {
		sentMails = append(sentMails, m)
		return nil
	}

	dbPath := "test.db"
	os.Remove(dbPath)
	database.InitDB(dbPath)
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

func createTestAccount(t *testing.T, email string) *model.Account {
	t.Helper()
	service := AccountService{}
	account, errs, err := service.CreateAccount(&entity.AccountForm{
		FirstName: "アンプラ太郎",
		LastName:  "京大",
		Furigana:  "きょうだい あんぷらたろう",
		Email:     email,
		Joined:    2011,
	}, model.RoleMember)
	require.NoError(t, err)
	require.False(t, errs.Any(), "unexpected validation errors: %v", errs)
	return account
}

func TestCreateAndAuthenticateAccount(t *testing.T) {
	setup()
	defer teardown()

	service := AccountService{}
	account := createTestAccount(t, "Foo@Example.com")

	// Email is stored lower-cased regardless of input case.
	reloaded, err := service.GetAccount(account.Id)
	require.NoError(t, err)
	assert.Equal(t, "foo@example.com", reloaded.Email)

	errs, err := service.UpdatePassword(account.Id, "foobar", "foobar")
	require.NoError(t, err)
	require.False(t, errs.Any())

	got := service.Authenticate("foo@example.com", "foobar")
	require.NotNil(t, got)
	assert.Equal(t, account.Id, got.Id)

	// Lookup folds the candidate email too.
	assert.NotNil(t, service.Authenticate("FOO@EXAMPLE.COM", "foobar"))

	assert.Nil(t, service.Authenticate("foo@example.com", "wrong"))
	assert.Nil(t, service.Authenticate("nobody@example.com", "foobar"))
}

func TestAuthenticateWithoutDigest(t *testing.T) {
	setup()
	defer teardown()

	service := AccountService{}
	createTestAccount(t, "nopass@example.com")

	assert.Nil(t, service.Authenticate("nopass@example.com", ""))
	assert.Nil(t, service.Authenticate("nopass@example.com", "anything"))
}

func TestEmailUniquenessCaseInsensitive(t *testing.T) {
	setup()
	defer teardown()

	service := AccountService{}
	createTestAccount(t, "dup@example.com")

	_, errs, err := service.CreateAccount(&entity.AccountForm{
		FirstName: "次郎",
		LastName:  "京大",
		Furigana:  "きょうだい じろう",
		Email:     "DUP@EXAMPLE.COM",
		Joined:    2012,
	}, model.RoleMember)
	require.NoError(t, err)
	assert.NotEmpty(t, errs["email"])
}

func TestCreateAccountValidation(t *testing.T) {
	setup()
	defer teardown()

	service := AccountService{}
	_, errs, err := service.CreateAccount(&entity.AccountForm{
		Email: "user@foo,com",
	}, model.RoleMember)
	require.NoError(t, err)
	for _, field := range []string{"firstName", "lastName", "furigana", "email", "joined"} {
		assert.NotEmpty(t, errs[field], "expected error on %s", field)
	}
}

func TestRememberLifecycle(t *testing.T) {
	setup()
	defer teardown()

	service := AccountService{}
	account := createTestAccount(t, "remember@example.com")

	token, err := service.Remember(account)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, service.Authenticated(account, KindRemember, token))
	assert.False(t, service.Authenticated(account, KindRemember, "some-other-token"))

	// Rotation invalidates the previous token immediately.
	second, err := service.Remember(account)
	require.NoError(t, err)
	assert.NotEqual(t, token, second)
	assert.False(t, service.Authenticated(account, KindRemember, token))
	assert.True(t, service.Authenticated(account, KindRemember, second))

	require.NoError(t, service.Forget(account))
	assert.False(t, service.Authenticated(account, KindRemember, second))

	// Forget is idempotent.
	require.NoError(t, service.Forget(account))
}

func TestAuthenticatedAbsentDigest(t *testing.T) {
	setup()
	defer teardown()

	service := AccountService{}
	account := createTestAccount(t, "blank@example.com")

	assert.False(t, service.Authenticated(account, KindRemember, "token"))
	assert.False(t, service.Authenticated(account, KindActivation, "token"))
	assert.False(t, service.Authenticated(account, "bogus", "token"))
	assert.False(t, service.Authenticated(nil, KindRemember, "token"))
}

func TestInviteAndActivate(t *testing.T) {
	setup()
	defer teardown()

	service := AccountService{}
	account := createTestAccount(t, "old@example.com")

	token, errs, err := service.Invite(account.Id, "New@Example.com")
	require.NoError(t, err)
	require.False(t, errs.Any())
	require.NotEmpty(t, token)
	require.Len(t, sentMails, 1)
	assert.Equal(t, []string{"new@example.com"}, sentMails[0].GetHeader("To"))

	reloaded, err := service.GetAccount(account.Id)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", reloaded.Email)
	assert.False(t, reloaded.Activated)

	// Wrong token fails closed.
	ok, errs, err := service.Activate(account.Id, "wrong-token", &entity.ActivateForm{
		Password:             "foobar",
		PasswordConfirmation: "foobar",
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, errs.Any())

	// Invalid credential change leaves the account unactivated.
	ok, errs, err = service.Activate(account.Id, token, &entity.ActivateForm{
		Password:             "short",
		PasswordConfirmation: "short",
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotEmpty(t, errs["password"])

	reloaded, _ = service.GetAccount(account.Id)
	assert.False(t, reloaded.Activated)

	ok, errs, err = service.Activate(account.Id, token, &entity.ActivateForm{
		Password:             "foobar",
		PasswordConfirmation: "foobar",
	})
	require.NoError(t, err)
	require.False(t, errs.Any())
	assert.True(t, ok)

	reloaded, err = service.GetAccount(account.Id)
	require.NoError(t, err)
	assert.True(t, reloaded.Activated)
	require.NotNil(t, reloaded.ActivatedAt)
	assert.WithinDuration(t, time.Now(), *reloaded.ActivatedAt, time.Minute)

	assert.NotNil(t, service.Authenticate("new@example.com", "foobar"))

	// The token is consumed by activation.
	ok, _, err = service.Activate(account.Id, token, &entity.ActivateForm{
		Password:             "another1",
		PasswordConfirmation: "another1",
	})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInviteInvalidEmail(t *testing.T) {
	setup()
	defer teardown()

	service := AccountService{}
	account := createTestAccount(t, "keep@example.com")

	token, errs, err := service.Invite(account.Id, "user@foo,com")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.NotEmpty(t, errs["email"])
	assert.Empty(t, sentMails)

	reloaded, _ := service.GetAccount(account.Id)
	assert.Equal(t, "keep@example.com", reloaded.Email)
}

func TestInviteMailFailureDoesNotRaise(t *testing.T) {
	setup()
	defer teardown()

	sendMail = func(m *gomail.Message) error {
		return assert.AnError
	}

	service := AccountService{}
	account := createTestAccount(t, "flaky@example.com")

	token, errs, err := service.Invite(account.Id, "reachable@example.com")
	require.NoError(t, err)
	require.False(t, errs.Any())
	assert.NotEmpty(t, token)

	// The invitation persisted even though the mail was lost.
	reloaded, _ := service.GetAccount(account.Id)
	assert.Equal(t, "reachable@example.com", reloaded.Email)
	assert.True(t, service.Authenticated(reloaded, KindActivation, token))
}

func TestUpdateRole(t *testing.T) {
	setup()
	defer teardown()

	service := AccountService{}
	account := createTestAccount(t, "role@example.com")

	updated, err := service.UpdateRole(account.Id, model.RoleElder)
	require.NoError(t, err)
	assert.Equal(t, model.RoleElder, updated.Role)

	reloaded, _ := service.GetAccount(account.Id)
	assert.Equal(t, model.RoleElder, reloaded.Role)

	_, err = service.UpdateRole(account.Id, "overlord")
	assert.Error(t, err)
}

func TestPurgeStaleRemembers(t *testing.T) {
	setup()
	defer teardown()

	service := AccountService{}
	account := createTestAccount(t, "stale@example.com")

	token, err := service.Remember(account)
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	err = database.GetDB().Model(model.Account{}).
		Where("id = ?", account.Id).
		Update("remembered_at", old).
		Error
	require.NoError(t, err)

	n, err := service.PurgeStaleRemembers(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	reloaded, _ := service.GetAccount(account.Id)
	assert.False(t, service.Authenticated(reloaded, KindRemember, token))
}
