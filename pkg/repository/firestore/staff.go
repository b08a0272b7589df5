package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type staffRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newStaffRepository(client *firestore.Client) *staffRepository {
	return &staffRepository{
		client: client,
	}
}

func (r *staffRepository) staffCollection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, "staff"))
}

func (r *staffRepository) Create(ctx context.Context, s *model.Staff) error {
	_, err := r.staffCollection().Doc(s.ID).Create(ctx, s)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(model.ErrAlreadyExists, "staff already exists", goerr.V("staff_id", s.ID))
		}
		return goerr.Wrap(err, "failed to create staff", goerr.V("staff_id", s.ID))
	}
	return nil
}

func (r *staffRepository) Get(ctx context.Context, id string) (*model.Staff, error) {
	docSnap, err := r.staffCollection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "staff not found", goerr.V("staff_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get staff", goerr.V("staff_id", id))
	}

	var s model.Staff
	if err := docSnap.DataTo(&s); err != nil {
		return nil, goerr.Wrap(err, "failed to decode staff", goerr.V("staff_id", id))
	}
	return &s, nil
}
