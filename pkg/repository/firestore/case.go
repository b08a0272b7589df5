package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CasesCollection is the collection name of case documents without prefix
const CasesCollection = "cases"

// caseDoc is the stored form of a case. RefIDs and AppointmentIDs are
// denormalized lookup keys for array-contains queries.
type caseDoc struct {
	Case           *model.Case
	RefIDs         []string
	AppointmentIDs []string
}

func newCaseDoc(c *model.Case) *caseDoc {
	doc := &caseDoc{
		Case:           c,
		RefIDs:         []string{c.ComplainantRefID.String(), c.RespondentRefID.String()},
		AppointmentIDs: []string{},
	}
	for _, a := range c.Appointments() {
		doc.AppointmentIDs = append(doc.AppointmentIDs, a.ID.String())
	}
	return doc
}

type caseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCaseRepository(client *firestore.Client) *caseRepository {
	return &caseRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *caseRepository) casesCollection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, CasesCollection))
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	if c.ID == "" {
		return nil, goerr.New("case ID is required")
	}

	_, err := r.casesCollection().Doc(c.ID.String()).Create(ctx, newCaseDoc(c))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(model.ErrAlreadyExists, "case already exists", goerr.V("id", c.ID))
		}
		return nil, goerr.Wrap(err, "failed to create case", goerr.V("id", c.ID))
	}

	return c.Clone(), nil
}

func (r *caseRepository) Get(ctx context.Context, id model.CaseID) (*model.Case, error) {
	docSnap, err := r.casesCollection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}

	return decodeCase(docSnap)
}

func decodeCase(docSnap *firestore.DocumentSnapshot) (*model.Case, error) {
	var doc caseDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", docSnap.Ref.ID))
	}
	if doc.Case == nil {
		return nil, goerr.New("case document has no body", goerr.V("doc_id", docSnap.Ref.ID))
	}
	return doc.Case, nil
}

func (r *caseRepository) findOne(ctx context.Context, q firestore.Query, key string, value string) (*model.Case, error) {
	iter := q.Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V(key, value))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query case", goerr.V(key, value))
	}

	return decodeCase(docSnap)
}

func (r *caseRepository) GetByRefID(ctx context.Context, ref model.RefID) (*model.Case, error) {
	if ref == "" {
		return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V("ref_id", ref))
	}
	q := r.casesCollection().Where("RefIDs", "array-contains", ref.String())
	return r.findOne(ctx, q, "ref_id", ref.String())
}

func (r *caseRepository) GetByAppointmentID(ctx context.Context, id model.AppointmentID) (*model.Case, error) {
	q := r.casesCollection().Where("AppointmentIDs", "array-contains", id.String())
	return r.findOne(ctx, q, "appointment_id", id.String())
}

func (r *caseRepository) List(ctx context.Context, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	cfg := interfaces.BuildListCaseConfig(opts...)

	q := r.casesCollection().Query
	if s := cfg.Stage(); s != nil {
		q = q.Where("Case.Stage", "==", s.String())
	}
	if cfg.Unassigned() {
		q = q.Where("Case.AssignedOfficer", "==", "")
	}
	if o := cfg.Officer(); o != nil {
		q = q.Where("Case.AssignedOfficer", "==", *o)
	}
	q = q.OrderBy("Case.CreatedAt", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	cases := []*model.Case{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases")
		}

		c, err := decodeCase(docSnap)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}

	return cases, nil
}

func (r *caseRepository) Put(ctx context.Context, c *model.Case) (*model.Case, error) {
	docRef := r.casesCollection().Doc(c.ID.String())

	// Check if document exists
	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V("id", c.ID))
		}
		return nil, goerr.Wrap(err, "failed to check case existence", goerr.V("id", c.ID))
	}

	if _, err := docRef.Set(ctx, newCaseDoc(c)); err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V("id", c.ID))
	}

	return c.Clone(), nil
}
