package service

import (
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/testutil"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
)

func (s *serviceSuite) TestLoginIssuesTokenWithGroups() {
	out, err := s.auth.Login(s.ctx, &LoginInput{Email: "supervisor@example.com", Password: testutil.Password})
	s.Require().NoError(err)

	claims, err := s.auth.jwtManager.ValidateAccessToken(out.AccessToken)
	s.Require().NoError(err)
	s.Equal(s.f.Editor.ID, claims.UserID)
	s.Equal(s.f.Company.ID, claims.CompanyID)
	s.ElementsMatch([]string{entity.GroupRateEditors, entity.GroupPosManager}, claims.Groups)
}

func (s *serviceSuite) TestLoginRejectsBadPassword() {
	_, err := s.auth.Login(s.ctx, &LoginInput{Email: "cashier@example.com", Password: "nope"})
	s.ErrorIs(err, apperror.ErrInvalidCredentials)

	_, err = s.auth.Login(s.ctx, &LoginInput{Email: "ghost@example.com", Password: testutil.Password})
	s.ErrorIs(err, apperror.ErrInvalidCredentials)
}

func (s *serviceSuite) TestRefresh() {
	out, err := s.auth.Login(s.ctx, &LoginInput{Email: "cashier@example.com", Password: testutil.Password})
	s.Require().NoError(err)

	refreshed, err := s.auth.Refresh(s.ctx, out.RefreshToken)
	s.Require().NoError(err)
	s.Equal(s.f.Cashier.ID, refreshed.User.ID)

	_, err = s.auth.Refresh(s.ctx, "garbage")
	s.ErrorIs(err, apperror.ErrUnauthorized)

}
