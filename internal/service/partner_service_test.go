package service

import (
	"context"
	"sync"
	"testing"

	"github.com/emirhanunsal/MovieSuggest/internal/models"
	"github.com/emirhanunsal/MovieSuggest/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPartnerFixture(userIDs ...string) (*PartnerService, *fakeRequestStore, *fakeLinkStore, *fakeNoteStore) {
	users := newFakeUserStore(userIDs...)
	reqs := &fakeRequestStore{}
	links := newFakeLinkStore()
	notes := &fakeNoteStore{}
	svc := NewPartnerService(users, reqs, links, NewNotificationService(notes))
	return svc, reqs, links, notes
}

func TestSendCreatesPendingAndNotifiesReceiver(t *testing.T) {
	svc, reqs, _, notes := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	req, err := svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "alice", req.SenderID)
	assert.Equal(t, "bob", req.ReceiverID)
	assert.Equal(t, models.PartnerRequestStatusPending, reqs.statusOf("alice", "bob"))
	assert.Equal(t, []string{models.NotificationPartnerRequest}, notes.kindsFor("bob"))
}

func TestSendRejectsSelfAndUnknownUsers(t *testing.T) {
	svc, _, _, _ := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "alice")
	assert.ErrorIs(t, err, ErrSelfRequest)

	_, err = svc.Send(ctx, "alice", "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Send(ctx, "ghost", "bob")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendDuplicateBothDirections(t *testing.T) {
	svc, _, _, _ := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)

	// misma dirección
	_, err = svc.Send(ctx, "alice", "bob")
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// dirección opuesta: el pending es por pareja, no por dirección
	_, err = svc.Send(ctx, "bob", "alice")
	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestSendBlockedByActiveLinkOnEitherSide(t *testing.T) {
	svc, _, _, _ := newPartnerFixture("alice", "bob", "carol")
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, "alice", "bob"))

	_, err = svc.Send(ctx, "alice", "carol")
	assert.ErrorIs(t, err, ErrAlreadyPartnered)

	_, err = svc.Send(ctx, "carol", "bob")
	assert.ErrorIs(t, err, ErrAlreadyPartnered)
}

func TestAcceptCreatesMirroredLink(t *testing.T) {
	svc, reqs, links, notes := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, "alice", "bob"))

	assert.Equal(t, models.PartnerRequestStatusAccepted, reqs.statusOf("alice", "bob"))

	la, err := links.FindActiveByUser(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, la)
	assert.Equal(t, "bob", la.PartnerID)

	lb, err := links.FindActiveByUser(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, lb)
	assert.Equal(t, "alice", lb.PartnerID)
	assert.Equal(t, la.CreatedAt, lb.CreatedAt)

	assert.Equal(t, []string{models.NotificationRequestAccepted}, notes.kindsFor("alice"))
}

func TestAcceptMissingOrAlreadyDecided(t *testing.T) {
	svc, _, _, _ := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	err := svc.Accept(ctx, "alice", "bob")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, svc.Reject(ctx, "alice", "bob"))

	// terminal: no se puede aceptar un request rechazado
	err = svc.Accept(ctx, "alice", "bob")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestAcceptRevertsRequestWhenLinkFails(t *testing.T) {
	svc, reqs, links, _ := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)

	links.failInsert = assert.AnError
	err = svc.Accept(ctx, "alice", "bob")
	require.Error(t, err)

	// el request vuelve a pending, el retry puede funcionar
	assert.Equal(t, models.PartnerRequestStatusPending, reqs.statusOf("alice", "bob"))

	links.failInsert = nil
	require.NoError(t, svc.Accept(ctx, "alice", "bob"))
}

func TestRejectAndWithdrawAreTerminal(t *testing.T) {
	svc, reqs, _, notes := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, svc.Reject(ctx, "alice", "bob"))
	assert.Equal(t, models.PartnerRequestStatusRejected, reqs.statusOf("alice", "bob"))
	assert.ErrorIs(t, svc.Withdraw(ctx, "alice", "bob"), ErrRequestNotFound)
	assert.Equal(t, []string{models.NotificationRequestRejected}, notes.kindsFor("alice"))

	// tras el rechazo la pareja puede volver a intentar
	_, err = svc.Send(ctx, "bob", "alice")
	require.NoError(t, err)
	require.NoError(t, svc.Withdraw(ctx, "bob", "alice"))
	assert.Equal(t, models.PartnerRequestStatusWithdrawn, reqs.statusOf("bob", "alice"))
	assert.ErrorIs(t, svc.Accept(ctx, "bob", "alice"), ErrRequestNotFound)
}

func TestTerminateDissolvesAndAllowsResend(t *testing.T) {
	svc, _, links, notes := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, "alice", "bob"))

	// cualquiera de los dos puede terminar
	require.NoError(t, svc.Terminate(ctx, "bob"))

	la, _ := links.FindActiveByUser(ctx, "alice")
	lb, _ := links.FindActiveByUser(ctx, "bob")
	assert.Nil(t, la)
	assert.Nil(t, lb)

	assert.Contains(t, notes.kindsFor("alice"), models.NotificationPartnershipEnded)
	assert.Contains(t, notes.kindsFor("bob"), models.NotificationPartnershipEnded)

	assert.ErrorIs(t, svc.Terminate(ctx, "bob"), ErrNoActiveLink)

	// el ciclo puede empezar de nuevo
	_, err = svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)
}

func TestConcurrentOppositeSendsExactlyOneWins(t *testing.T) {
	svc, reqs, _, _ := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	var wg sync.WaitGroup
	errsCh := make(chan error, 2)
	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		wg.Add(1)
		go func(sender, receiver string) {
			defer wg.Done()
			_, err := svc.Send(ctx, sender, receiver)
			errsCh <- err
		}(pair[0], pair[1])
	}
	wg.Wait()
	close(errsCh)

	var okCount, dupCount int
	for err := range errsCh {
		switch {
		case err == nil:
			okCount++
		case assert.ErrorIs(t, err, ErrDuplicateRequest):
			dupCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, dupCount)

	all, err := reqs.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInsertPendingGuardsSenderEvenPastChecks(t *testing.T) {
	// directo contra el store, sin los checks previos del service: la
	// unicidad por sender tiene que vivir en la escritura misma.
	reqs := &fakeRequestStore{}
	ctx := context.Background()

	err := reqs.InsertPending(ctx, &models.PartnerRequest{SenderID: "alice", ReceiverID: "bob"})
	require.NoError(t, err)

	err = reqs.InsertPending(ctx, &models.PartnerRequest{SenderID: "alice", ReceiverID: "carol"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// otro sender hacia un receiver libre sí pasa
	err = reqs.InsertPending(ctx, &models.PartnerRequest{SenderID: "carol", ReceiverID: "dave"})
	require.NoError(t, err)
}

func TestConcurrentSendsSameSenderExactlyOneWins(t *testing.T) {
	svc, reqs, _, _ := newPartnerFixture("alice", "bob", "carol")
	ctx := context.Background()

	var wg sync.WaitGroup
	errsCh := make(chan error, 2)
	for _, receiver := range []string{"bob", "carol"} {
		wg.Add(1)
		go func(receiver string) {
			defer wg.Done()
			_, err := svc.Send(ctx, "alice", receiver)
			errsCh <- err
		}(receiver)
	}
	wg.Wait()
	close(errsCh)

	var okCount, dupCount int
	for err := range errsCh {
		switch {
		case err == nil:
			okCount++
		case assert.ErrorIs(t, err, ErrDuplicateRequest):
			dupCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, dupCount)

	// alice quedó con exactamente un pending saliente
	all, err := reqs.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.PartnerRequestStatusPending, all[0].Status)
}

func TestConcurrentAcceptVsWithdrawExactlyOneWins(t *testing.T) {
	svc, _, links, _ := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results <- svc.Accept(ctx, "alice", "bob")
	}()
	go func() {
		defer wg.Done()
		results <- svc.Withdraw(ctx, "alice", "bob")
	}()
	wg.Wait()
	close(results)

	var okCount, lostCount int
	for err := range results {
		switch {
		case err == nil:
			okCount++
		case assert.ErrorIs(t, err, ErrRequestNotFound):
			lostCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, lostCount)

	// el estado final es consistente con el ganador
	link, err := links.FindActiveByUser(ctx, "alice")
	require.NoError(t, err)
	if link != nil {
		assert.Equal(t, "bob", link.PartnerID)
	}
}

func TestListRequestsSplitsByDirection(t *testing.T) {
	svc, _, _, _ := newPartnerFixture("alice", "bob", "carol")
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "carol", "alice")
	require.NoError(t, err)

	sent, received, err := svc.ListRequests(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Len(t, received, 1)
	assert.Equal(t, "bob", sent[0].ReceiverID)
	assert.Equal(t, "carol", received[0].SenderID)
}

func TestActivePartner(t *testing.T) {
	svc, _, _, _ := newPartnerFixture("alice", "bob")
	ctx := context.Background()

	p, err := svc.ActivePartner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, p)

	_, err = svc.Send(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, "alice", "bob"))

	p, err = svc.ActivePartner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "bob", p)
}
