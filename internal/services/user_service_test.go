package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"leagueapi/internal/apperr"
	"leagueapi/internal/models"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockUserRepository
	mockTokens *MockTokenRepository
	service    UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockUserRepository{}
	suite.mockTokens = &MockTokenRepository{}
	suite.service = NewUserService(suite.mockRepo, suite.mockTokens)
}

func (suite *UserServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockTokens.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func validParams() UserParams {
	return UserParams{
		Email:                "alice@example.com",
		Password:             "longenough",
		PasswordConfirmation: "longenough",
		FirstName:            "Alice",
		LastName:             "Keeper",
	}
}

func (suite *UserServiceTestSuite) TestCreate_Success() {
	params := validParams()

	suite.mockRepo.On("EmailTaken", mock.Anything, params.Email, uuid.Nil).Return(false, nil).Once()
	suite.mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, verrs, err := suite.service.Create(context.Background(), params)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), verrs)
	assert.NotEqual(suite.T(), uuid.Nil, user.ID)
	assert.Equal(suite.T(), params.Email, user.Email)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(params.Password)))
}

func (suite *UserServiceTestSuite) TestCreate_EmailTaken() {
	params := validParams()

	suite.mockRepo.On("EmailTaken", mock.Anything, params.Email, uuid.Nil).Return(true, nil).Once()

	user, verrs, err := suite.service.Create(context.Background(), params)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), user)
	assert.Contains(suite.T(), verrs["email"], "has already been taken")
}

func (suite *UserServiceTestSuite) TestCreate_InvalidEmail() {
	params := validParams()
	params.Email = "not-an-email"

	_, verrs, err := suite.service.Create(context.Background(), params)

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), verrs["email"], "is invalid")
}

func (suite *UserServiceTestSuite) TestCreate_ShortPassword() {
	params := validParams()
	params.Password = "short"
	params.PasswordConfirmation = "short"

	_, verrs, err := suite.service.Create(context.Background(), params)

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), verrs["password"], "is too short (minimum is 8 characters)")
}

func (suite *UserServiceTestSuite) TestCreate_ConfirmationMismatch() {
	params := validParams()
	params.PasswordConfirmation = "different!"

	_, verrs, err := suite.service.Create(context.Background(), params)

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), verrs["password"], "doesn't match confirmation")
}

func (suite *UserServiceTestSuite) TestCreate_BlankEverything() {
	_, verrs, err := suite.service.Create(context.Background(), UserParams{})

	assert.NoError(suite.T(), err)
	for _, field := range []string{"email", "first_name", "last_name", "password"} {
		assert.Contains(suite.T(), verrs[field], "can't be blank")
	}
}

func (suite *UserServiceTestSuite) TestCreate_UniqueIndexRace() {
	params := validParams()

	suite.mockRepo.On("EmailTaken", mock.Anything, params.Email, uuid.Nil).Return(false, nil).Once()
	suite.mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(apperr.ErrAlreadyExists).Once()

	user, verrs, err := suite.service.Create(context.Background(), params)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), user)
	assert.Contains(suite.T(), verrs["email"], "has already been taken")
}

func (suite *UserServiceTestSuite) TestUpdate_NameOnlySkipsPasswordRules() {
	id := uuid.New()
	existing := &models.User{
		ID:        id,
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Keeper",
	}
	newName := "Alicia"

	suite.mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()
	suite.mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, verrs, err := suite.service.Update(context.Background(), id, UserUpdateParams{FirstName: &newName})

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), verrs)
	assert.Equal(suite.T(), "Alicia", user.FirstName)
}

func (suite *UserServiceTestSuite) TestUpdate_PasswordChangeRevokesSessions() {
	id := uuid.New()
	existing := &models.User{
		ID:        id,
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Keeper",
	}
	newPassword := "freshsecret"

	suite.mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()
	suite.mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()
	suite.mockTokens.On("RevokeAllForOwner", mock.Anything, id, mock.AnythingOfType("time.Time")).Return(nil).Once()

	user, verrs, err := suite.service.Update(context.Background(), id, UserUpdateParams{
		Password:             &newPassword,
		PasswordConfirmation: &newPassword,
	})

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), verrs)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)))
}

func (suite *UserServiceTestSuite) TestUpdate_NameOnlyKeepsSessions() {
	id := uuid.New()
	existing := &models.User{
		ID:        id,
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Keeper",
	}
	newName := "Alicia"

	suite.mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()
	suite.mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

	_, _, err := suite.service.Update(context.Background(), id, UserUpdateParams{FirstName: &newName})

	assert.NoError(suite.T(), err)
	suite.mockTokens.AssertNotCalled(suite.T(), "RevokeAllForOwner", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdate_NewPasswordValidated() {
	id := uuid.New()
	existing := &models.User{
		ID:        id,
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Keeper",
	}
	short := "tiny"

	suite.mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()

	_, verrs, err := suite.service.Update(context.Background(), id, UserUpdateParams{
		Password:             &short,
		PasswordConfirmation: &short,
	})

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), verrs["password"], "is too short (minimum is 8 characters)")
}

func (suite *UserServiceTestSuite) TestUpdate_DuplicateEmail() {
	id := uuid.New()
	existing := &models.User{
		ID:        id,
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Keeper",
	}
	taken := "bob@example.com"

	suite.mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()
	suite.mockRepo.On("EmailTaken", mock.Anything, taken, id).Return(true, nil).Once()

	_, verrs, err := suite.service.Update(context.Background(), id, UserUpdateParams{Email: &taken})

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), verrs["email"], "has already been taken")
}

func (suite *UserServiceTestSuite) TestUpdate_NotFound() {
	id := uuid.New()
	suite.mockRepo.On("GetByID", mock.Anything, id).Return(nil, apperr.ErrNotFound).Once()

	_, _, err := suite.service.Update(context.Background(), id, UserUpdateParams{})

	assert.ErrorIs(suite.T(), err, apperr.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestDelete() {
	id := uuid.New()
	suite.mockRepo.On("Delete", mock.Anything, id).Return(nil).Once()

	assert.NoError(suite.T(), suite.service.Delete(context.Background(), id))
}

func (suite *UserServiceTestSuite) TestList() {
	expected := []*models.User{{ID: uuid.New()}, {ID: uuid.New()}}
	suite.mockRepo.On("List", mock.Anything, 10, 0).Return(expected, nil).Once()

	users, err := suite.service.List(context.Background(), 10, 0)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expected, users)
}
