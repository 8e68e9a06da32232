// Package service provides the business logic for livelog: accounts and
// their credential lifecycle, lives, songs, entries and notification mail.
package service

import (
	"strings"
	"time"

	"github.com/ku-unplugged/livelog/database"
	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/logger"
	"github.com/ku-unplugged/livelog/util/common"
	"github.com/ku-unplugged/livelog/util/crypto"
	"github.com/ku-unplugged/livelog/util/random"
	"github.com/ku-unplugged/livelog/web/entity"

	"gorm.io/gorm"
)

// Digest kinds accepted by Authenticated.
const (
	KindRemember   = "remember"
	KindActivation = "activation"
)

// AccountService owns the account credential lifecycle: authentication,
// remember tokens, invitation and activation.
type AccountService struct {
	mailService MailService
}

func (s *AccountService) GetAccount(id int) (*model.Account, error) {
	db := database.GetDB()

	account := &model.Account{}
	err := db.Model(model.Account{}).
		Where("id = ?", id).
		First(account).
		Error
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) GetAccountByEmail(email string) (*model.Account, error) {
	db := database.GetDB()

	account := &model.Account{}
	err := db.Model(model.Account{}).
		Where("email = ?", strings.ToLower(email)).
		First(account).
		Error
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) ListAccounts() ([]model.Account, error) {
	db := database.GetDB()

	var accounts []model.Account
	err := db.Model(model.Account{}).
		Order("joined, furigana").
		Find(&accounts).
		Error
	return accounts, err
}

// CreateAccount validates and saves a new unactivated account. The
// returned FieldErrors are non-empty when validation rejected the
// record; the error covers everything else.
func (s *AccountService) CreateAccount(form *entity.AccountForm, role string) (*model.Account, model.FieldErrors, error) {
	account := &model.Account{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Furigana:  form.Furigana,
		Nickname:  form.Nickname,
		Email:     form.Email,
		Joined:    form.Joined,
		Role:      role,
	}
	account.DowncaseEmail()

	errs := account.Validate(time.Now())
	if taken, err := s.emailTaken(account.Email, 0); err != nil {
		return nil, nil, err
	} else if taken {
		errs.Add("email", "has already been taken")
	}
	if errs.Any() {
		return nil, errs, nil
	}

	db := database.GetDB()
	if err := db.Create(account).Error; err != nil {
		if database.IsUniqueViolation(err) {
			errs.Add("email", "has already been taken")
			return nil, errs, nil
		}
		return nil, nil, err
	}
	return account, nil, nil
}

// UpdateAccount updates profile fields only.
func (s *AccountService) UpdateAccount(id int, form *entity.AccountForm) (*model.Account, model.FieldErrors, error) {
	account, err := s.GetAccount(id)
	if err != nil {
		return nil, nil, err
	}

	account.FirstName = form.FirstName
	account.LastName = form.LastName
	account.Furigana = form.Furigana
	account.Nickname = form.Nickname
	account.Email = form.Email
	account.Joined = form.Joined
	account.DowncaseEmail()

	errs := account.Validate(time.Now())
	if taken, err := s.emailTaken(account.Email, id); err != nil {
		return nil, nil, err
	} else if taken {
		errs.Add("email", "has already been taken")
	}
	if errs.Any() {
		return nil, errs, nil
	}

	db := database.GetDB()
	if err := db.Save(account).Error; err != nil {
		if database.IsUniqueViolation(err) {
			errs.Add("email", "has already been taken")
			return nil, errs, nil
		}
		return nil, nil, err
	}
	return account, nil, nil
}

func (s *AccountService) UpdateRole(id int, role string) (*model.Account, error) {
	switch role {
	case model.RoleMember, model.RoleElder, model.RoleAdmin:
	default:
		return nil, common.NewErrorf("unknown role: %s", role)
	}

	account, err := s.GetAccount(id)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	err = db.Model(model.Account{}).
		Where("id = ?", id).
		Update("role", role).
		Error
	if err != nil {
		return nil, err
	}
	account.Role = role
	return account, nil
}

// Authenticate looks the account up by folded email and verifies the
// password. Unknown email and wrong password both return nil; the
// caller cannot tell which happened.
func (s *AccountService) Authenticate(email string, password string) *model.Account {
	account, err := s.GetAccountByEmail(email)
	if err == gorm.ErrRecordNotFound {
		return nil
	} else if err != nil {
		logger.Warning("authenticate err:", err)
		return nil
	}

	if !crypto.VerifyDigest(account.PasswordDigest, password) {
		return nil
	}
	return account
}

// Authenticated verifies a candidate token against the digest of the
// given kind. Absent digest verifies false, same as a mismatch.
func (s *AccountService) Authenticated(account *model.Account, kind string, token string) bool {
	if account == nil {
		return false
	}
	var digest string
	switch kind {
	case KindRemember:
		digest = account.RememberDigest
	case KindActivation:
		digest = account.ActivationDigest
	default:
		return false
	}
	return crypto.VerifyDigest(digest, token)
}

// Remember rotates the remember token: a fresh token is generated, its
// digest stored, and the plaintext returned for the cookie. Any
// previously issued token stops verifying immediately.
func (s *AccountService) Remember(account *model.Account) (string, error) {
	token := random.Token()
	digest, err := crypto.HashDigest(token)
	if err != nil {
		return "", err
	}

	now := time.Now()
	db := database.GetDB()
	err = db.Model(model.Account{}).
		Where("id = ?", account.Id).
		Updates(map[string]any{"remember_digest": digest, "remembered_at": now}).
		Error
	if err != nil {
		return "", err
	}

	account.RememberToken = token
	account.RememberDigest = digest
	account.RememberedAt = &now
	return token, nil
}

// Forget drops the remember digest. Safe to call repeatedly.
func (s *AccountService) Forget(account *model.Account) error {
	db := database.GetDB()
	err := db.Model(model.Account{}).
		Where("id = ?", account.Id).
		Updates(map[string]any{"remember_digest": "", "remembered_at": nil}).
		Error
	if err != nil {
		return err
	}
	account.RememberToken = ""
	account.RememberDigest = ""
	account.RememberedAt = nil
	return nil
}

// Invite stores the new email and a fresh activation digest, then sends
// the activation mail with the plaintext token. Nothing is sent when
// persistence fails, and a mail failure is logged but not raised.
func (s *AccountService) Invite(accountId int, email string) (string, model.FieldErrors, error) {
	account, err := s.GetAccount(accountId)
	if err != nil {
		return "", nil, err
	}

	account.Email = email
	account.DowncaseEmail()
	errs := account.Validate(time.Now())
	if taken, err := s.emailTaken(account.Email, accountId); err != nil {
		return "", nil, err
	} else if taken {
		errs.Add("email", "has already been taken")
	}
	if errs.Any() {
		return "", errs, nil
	}

	token := random.Token()
	digest, err := crypto.HashDigest(token)
	if err != nil {
		return "", nil, err
	}

	db := database.GetDB()
	err = db.Model(model.Account{}).
		Where("id = ?", accountId).
		Updates(map[string]any{"email": account.Email, "activation_digest": digest}).
		Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			errs.Add("email", "has already been taken")
			return "", errs, nil
		}
		return "", nil, err
	}

	account.ActivationToken = token
	account.ActivationDigest = digest
	if err := s.mailService.SendActivation(account, token); err != nil {
		logger.Warning("activation mail not sent:", err)
	}
	return token, nil, nil
}

// Activate consumes the activation token and sets the initial password.
// The activated flag and timestamp are only written when the credential
// update itself went through; a failed update leaves the account
// unactivated with no further explanation, matching the invitation
// flow's fail-closed behavior.
func (s *AccountService) Activate(accountId int, token string, form *entity.ActivateForm) (bool, model.FieldErrors, error) {
	account, err := s.GetAccount(accountId)
	if err != nil {
		return false, nil, err
	}

	if account.Activated || !s.Authenticated(account, KindActivation, token) {
		return false, nil, nil
	}

	account.Password = form.Password
	account.PasswordConfirmation = form.PasswordConfirmation
	errs := account.Validate(time.Now())
	if form.Password == "" && form.PasswordConfirmation == "" {
		errs.Add("password", "can't be blank")
	}
	if errs.Any() {
		return false, errs, nil
	}

	digest, err := crypto.HashDigest(form.Password)
	if err != nil {
		return false, nil, err
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(model.Account{}).
			Where("id = ?", accountId).
			Update("password_digest", digest).
			Error; err != nil {
			return err
		}
		return tx.Model(model.Account{}).
			Where("id = ?", accountId).
			Updates(map[string]any{"activated": true, "activated_at": time.Now()}).
			Error
	})
	if err != nil {
		return false, nil, err
	}
	return true, nil, nil
}

// UpdatePassword sets a new password after validating the change.
func (s *AccountService) UpdatePassword(accountId int, password, confirmation string) (model.FieldErrors, error) {
	account, err := s.GetAccount(accountId)
	if err != nil {
		return nil, err
	}

	account.Password = password
	account.PasswordConfirmation = confirmation
	errs := account.Validate(time.Now())
	if password == "" && confirmation == "" {
		errs.Add("password", "can't be blank")
	}
	if errs.Any() {
		return errs, nil
	}

	digest, err := crypto.HashDigest(password)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	err = db.Model(model.Account{}).
		Where("id = ?", accountId).
		Update("password_digest", digest).
		Error
	return nil, err
}

// PurgeStaleRemembers clears remember digests older than the cutoff so
// long-abandoned cookies stop resolving.
func (s *AccountService) PurgeStaleRemembers(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	db := database.GetDB()
	result := db.Model(model.Account{}).
		Where("remembered_at IS NOT NULL AND remembered_at < ?", cutoff).
		Updates(map[string]any{"remember_digest": "", "remembered_at": nil})
	return result.RowsAffected, result.Error
}

func (s *AccountService) emailTaken(email string, excludeId int) (bool, error) {
	db := database.GetDB()
	var count int64
	query := db.Model(model.Account{}).Where("email = ?", strings.ToLower(email))
	if excludeId > 0 {
		query = query.Where("id <> ?", excludeId)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
