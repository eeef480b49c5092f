// Package qdrant upserts post embeddings into a Qdrant collection over gRPC.
package qdrant

import (
	"context"
	"fmt"

	"github.com/fwojciec/postvault"
	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultCollection is the collection used when none is configured.
const DefaultCollection = "postvault"

var _ postvault.VectorSink = (*VectorSink)(nil)

// PointsClient is the subset of pb.PointsClient used by VectorSink.
type PointsClient interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
}

// CollectionsClient is the subset of pb.CollectionsClient used by VectorSink.
type CollectionsClient interface {
	List(ctx context.Context, in *pb.ListCollectionsRequest, opts ...grpc.CallOption) (*pb.ListCollectionsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
}

// VectorSink stores successful embedding entries as Qdrant points. Point
// IDs are derived from post IDs so re-exports overwrite earlier points.
type VectorSink struct {
	conn        *grpc.ClientConn
	points      PointsClient
	collections CollectionsClient
	collection  string
}

// NewVectorSink connects to Qdrant at the given gRPC address.
func NewVectorSink(addr, collection string) (*VectorSink, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial qdrant %s: %w", addr, err)
	}
	s := NewVectorSinkWithClients(pb.NewPointsClient(conn), pb.NewCollectionsClient(conn), collection)
	s.conn = conn
	return s, nil
}

// NewVectorSinkWithClients creates a VectorSink on existing clients.
func NewVectorSinkWithClients(points PointsClient, collections CollectionsClient, collection string) *VectorSink {
	if collection == "" {
		collection = DefaultCollection
	}
	return &VectorSink{
		points:      points,
		collections: collections,
		collection:  collection,
	}
}

// Close closes the underlying gRPC connection.
func (s *VectorSink) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// EnsureCollection creates the collection with cosine distance if it
// doesn't exist.
func (s *VectorSink) EnsureCollection(ctx context.Context, dims int) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", s.collection, err)
	}
	return nil
}

// UpsertEmbeddings writes every entry that has a vector. Failed entries
// are skipped.
func (s *VectorSink) UpsertEmbeddings(ctx context.Context, entries []postvault.EmbeddingEntry) error {
	points := make([]*pb.PointStruct, 0, len(entries))
	for _, e := range entries {
		if len(e.Embedding) == 0 {
			continue
		}
		points = append(points, &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(e.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: e.Embedding},
				},
			},
			Payload: map[string]*pb.Value{
				"post_id": stringValue(e.ID),
				"url":     stringValue(e.URL),
				"author":  stringValue(e.Author),
				"title":   stringValue(e.Title),
			},
		})
	}
	if len(points) == 0 {
		return nil
	}

	if err := s.EnsureCollection(ctx, len(points[0].GetVectors().GetVector().GetData())); err != nil {
		return err
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

// PointID returns the stable point UUID of a post ID.
func PointID(postID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("postvault:"+postID)).String()
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}
