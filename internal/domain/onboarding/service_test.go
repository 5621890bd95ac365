package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon/internal/domain/identity"
	"horizon/internal/domain/payments"
	"horizon/internal/domain/user"
	"horizon/internal/shared/apperr"
	"horizon/internal/shared/auth"
)

type fakeIdentities struct {
	registered []identity.CreateParams
	deleted    []string
	loggedOut  []string
	idents     map[string]*identity.Identity
	signInErr  error
	deleteErr  error
	without    []*identity.Identity
}

func newFakeIdentities() *fakeIdentities {
	return &fakeIdentities{idents: make(map[string]*identity.Identity)}
}

func (f *fakeIdentities) Register(ctx context.Context, params identity.CreateParams) (*identity.Identity, error) {
	f.registered = append(f.registered, params)
	ident := &identity.Identity{ID: "identity-1", Name: params.Name, Email: identity.NormalizeEmail(params.Email)}
	f.idents[ident.ID] = ident
	return ident, nil
}

func (f *fakeIdentities) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &identity.Session{ID: "session-1", IdentityID: "identity-1", Email: email, Token: "token-1"}, nil
}

func (f *fakeIdentities) Get(ctx context.Context, identityID string) (*identity.Identity, error) {
	ident, ok := f.idents[identityID]
	if !ok {
		return nil, apperr.NotFound("identity.Get", identity.ErrIdentityNotFound)
	}
	return ident, nil
}

func (f *fakeIdentities) Logout(ctx context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeIdentities) Delete(ctx context.Context, identityID string) error {
	f.deleted = append(f.deleted, identityID)
	return f.deleteErr
}

func (f *fakeIdentities) ListWithoutProfile(ctx context.Context) ([]*identity.Identity, error) {
	return f.without, nil
}

type fakeCustomers struct {
	created     []payments.NewCustomer
	deactivated []string
	url         string
	err         error
}

func (f *fakeCustomers) CreateCustomer(ctx context.Context, customer payments.NewCustomer) (string, error) {
	f.created = append(f.created, customer)
	return f.url, f.err
}

func (f *fakeCustomers) DeactivateCustomer(ctx context.Context, customerURL string) error {
	f.deactivated = append(f.deactivated, customerURL)
	return nil
}

type fakeProfiles struct {
	created []user.CreateParams
	ensured map[string]*user.Profile
	inserts int
	err     error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{ensured: make(map[string]*user.Profile)}
}

func (f *fakeProfiles) CreateProfile(ctx context.Context, params user.CreateParams) (*user.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, params)
	return &user.Profile{ID: "user-1", IdentityID: params.IdentityID, FirstName: params.FirstName, PaymentsCustomerID: params.PaymentsCustomerID}, nil
}

func (f *fakeProfiles) EnsureProfile(ctx context.Context, identityID, displayName, email string) (*user.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.ensured[identityID]; ok {
		return p, nil
	}
	params := user.MinimalParams(identityID, displayName, email)
	p := &user.Profile{ID: "user-" + identityID, IdentityID: identityID, FirstName: params.FirstName, LastName: params.LastName}
	f.ensured[identityID] = p
	f.inserts++
	return p, nil
}

func validSignUp() SignUpParams {
	return SignUpParams{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Address1:    "12 Analytical Way",
		City:        "New York",
		State:       "NY",
		PostalCode:  "10001",
		DateOfBirth: "1990-12-10",
		SSN:         "123456789",
		Email:       "Ada@Example.com",
		Password:    "Sup3r-secret",
	}
}

func TestSignUpParams_Validate(t *testing.T) {
	require.NoError(t, validSignUp().Validate())

	p := validSignUp()
	p.DateOfBirth = "10/12/1990"
	p.Password = "short"
	err := p.Validate()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "dateOfBirth")
	assert.GreaterOrEqual(t, len(verr.Fields), 2)
	assert.Equal(t, auth.StrengthWeak, verr.PasswordStrength)
}

func TestSignUpParams_SSNLastFour(t *testing.T) {
	assert.Equal(t, "6789", validSignUp().SSNLastFour())

	p := validSignUp()
	p.SSN = "1234"
	assert.Equal(t, "1234", p.SSNLastFour())
}

func TestSignUp_Success(t *testing.T) {
	idents := newFakeIdentities()
	customers := &fakeCustomers{url: "https://api.example.com/customers/cust-1"}
	profiles := newFakeProfiles()
	svc := NewService(idents, customers, profiles)

	result, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	assert.Equal(t, "token-1", result.Session.Token)
	assert.Equal(t, "cust-1", result.Profile.PaymentsCustomerID)

	require.Len(t, idents.registered, 1)
	assert.Equal(t, "Ada Lovelace", idents.registered[0].Name)

	require.Len(t, customers.created, 1)
	assert.Equal(t, "6789", customers.created[0].SSN)
	assert.Equal(t, "identity-1", customers.created[0].IdempotencyKey)

	require.Len(t, profiles.created, 1)
	assert.Equal(t, "https://api.example.com/customers/cust-1", profiles.created[0].PaymentsCustomerURL)
	assert.Empty(t, idents.deleted)
}

func TestSignUp_InvalidForm(t *testing.T) {
	idents := newFakeIdentities()
	svc := NewService(idents, &fakeCustomers{}, newFakeProfiles())

	p := validSignUp()
	p.Email = "not-an-email"
	_, err := svc.SignUp(context.Background(), p)

	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
	assert.Empty(t, idents.registered)
}

func TestSignUp_CustomerFailureDeletesIdentity(t *testing.T) {
	idents := newFakeIdentities()
	customers := &fakeCustomers{err: apperr.Upstream("dwolla", errors.New("timeout"))}
	profiles := newFakeProfiles()
	svc := NewService(idents, customers, profiles)

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSignUpFailed)
	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))

	assert.Equal(t, []string{"identity-1"}, idents.deleted)
	assert.Empty(t, customers.deactivated)
	assert.Empty(t, profiles.created)
}

func TestSignUp_ProfileFailureCompensatesBoth(t *testing.T) {
	idents := newFakeIdentities()
	idents.deleteErr = errors.New("db down")
	customers := &fakeCustomers{url: "https://api.example.com/customers/cust-1"}
	profiles := newFakeProfiles()
	profiles.err = apperr.Persistence("user.CreateProfile", errors.New("db down"))
	svc := NewService(idents, customers, profiles)

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.Error(t, err)
	assert.Equal(t, apperr.KindPersistenceFailed, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "failed to delete identity")

	assert.Equal(t, []string{"https://api.example.com/customers/cust-1"}, customers.deactivated)
	assert.Equal(t, []string{"identity-1"}, idents.deleted)
}

func TestSignUp_SessionFailureKeepsAccount(t *testing.T) {
	idents := newFakeIdentities()
	idents.signInErr = apperr.Persistence("identity.openSession", errors.New("redis down"))
	customers := &fakeCustomers{url: "https://api.example.com/customers/cust-1"}
	svc := NewService(idents, customers, newFakeProfiles())

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.Error(t, err)
	assert.Empty(t, idents.deleted)
	assert.Empty(t, customers.deactivated)
}

func TestSignIn_SelfHealsMissingProfile(t *testing.T) {
	idents := newFakeIdentities()
	idents.idents["identity-1"] = &identity.Identity{ID: "identity-1", Name: "Grace Hopper", Email: "grace@example.com"}
	profiles := newFakeProfiles()
	svc := NewService(idents, &fakeCustomers{}, profiles)

	result, err := svc.SignIn(context.Background(), SignInParams{Email: "grace@example.com", Password: "whatever1"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", result.Profile.FirstName)
	assert.Equal(t, "Hopper", result.Profile.LastName)

	_, err = svc.SignIn(context.Background(), SignInParams{Email: "grace@example.com", Password: "whatever1"})
	require.NoError(t, err)
	assert.Equal(t, 1, profiles.inserts)
}

func TestSignIn_ProfileErrorRevokesSession(t *testing.T) {
	idents := newFakeIdentities()
	idents.idents["identity-1"] = &identity.Identity{ID: "identity-1", Name: "Grace Hopper", Email: "grace@example.com"}
	profiles := newFakeProfiles()
	profiles.err = apperr.Persistence("user.EnsureProfile", errors.New("db down"))
	svc := NewService(idents, &fakeCustomers{}, profiles)

	_, err := svc.SignIn(context.Background(), SignInParams{Email: "grace@example.com", Password: "whatever1"})
	assert.Equal(t, apperr.KindPersistenceFailed, apperr.KindOf(err))
	assert.Equal(t, []string{"token-1"}, idents.loggedOut)
}

func TestSignIn_BadCredentials(t *testing.T) {
	idents := newFakeIdentities()
	idents.signInErr = apperr.Unauthorized("identity.SignIn", identity.ErrInvalidCredentials)
	svc := NewService(idents, &fakeCustomers{}, newFakeProfiles())

	_, err := svc.SignIn(context.Background(), SignInParams{Email: "grace@example.com", Password: "nope"})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = svc.SignIn(context.Background(), SignInParams{Email: "", Password: "nope"})
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}

func TestReconcileProfiles(t *testing.T) {
	idents := newFakeIdentities()
	idents.without = []*identity.Identity{
		{ID: "a", Name: "Ada Lovelace"},
		{ID: "b", Name: ""},
	}
	profiles := newFakeProfiles()
	svc := NewService(idents, &fakeCustomers{}, profiles)

	n, err := svc.ReconcileProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "User", profiles.ensured["b"].FirstName)
}
