// Package feast 提供基于 Feast Feature Store 的向量表实现。
//
// Feast 是一个开源的 Feature Store，离线训练产出的隐向量可以物化到其在线
// 存储中；本包通过官方 Go SDK 的 gRPC 客户端把一个 double list 特征
// 暴露为 core.EmbeddingStore，供 scorer.Latent 在线查表。
//
// 参考：https://github.com/feast-dev/feast
package feast

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/evalkit/core"
)

// EmbeddingSource 把 Feast 在线特征仓库中的一个向量特征适配为
// core.EmbeddingStore。
//
// 约定：
//   - 实体通过 JoinKey 关联（如 "user_id"），ID 为 int64
//   - 向量存放在一个 double list 特征里（如 "user_embedding:vector"）
type EmbeddingSource struct {
	client *feastsdk.GrpcClient

	// Project 是 Feast 项目名称
	Project string

	// JoinKey 是实体 join key，例如 "user_id" / "item_id"
	JoinKey string

	// Feature 是向量特征名，例如 "user_embedding:vector"
	Feature string

	dim int
}

// NewEmbeddingSource 创建一个 Feast 向量表客户端。
// host/port 指向 Feast Feature Server（gRPC，默认端口 6565）。
func NewEmbeddingSource(host string, port int, project, joinKey, feature string, dim int) (*EmbeddingSource, error) {
	if port == 0 {
		port = 6565
	}
	if project == "" || joinKey == "" || feature == "" {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"feast: project, joinKey and feature are required")
	}
	if dim <= 0 {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			fmt.Sprintf("feast: dim must be > 0, got %d", dim))
	}

	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast: create grpc client: %w", err)
	}
	return &EmbeddingSource{
		client:  client,
		Project: project,
		JoinKey: joinKey,
		Feature: feature,
		dim:     dim,
	}, nil
}

func (s *EmbeddingSource) Name() string { return "feast" }

func (s *EmbeddingSource) Dim() int { return s.dim }

func (s *EmbeddingSource) GetVector(ctx context.Context, id int64) ([]float64, error) {
	vecs, err := s.BatchGetVectors(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	vec, ok := vecs[id]
	if !ok {
		return nil, core.ErrVectorNotFound
	}
	return vec, nil
}

func (s *EmbeddingSource) BatchGetVectors(ctx context.Context, ids []int64) (map[int64][]float64, error) {
	if len(ids) == 0 {
		return make(map[int64][]float64), nil
	}

	entityRows := make([]feastsdk.Row, len(ids))
	for i, id := range ids {
		entityRows[i] = feastsdk.Row{s.JoinKey: feastsdk.Int64Val(id)}
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: []string{s.Feature},
		Entities: entityRows,
		Project:  s.Project,
	}
	resp, err := s.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast: get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) != len(ids) {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInternalError,
			fmt.Sprintf("feast: response row count mismatch: expected %d, got %d", len(ids), len(rows)))
	}

	result := make(map[int64][]float64, len(ids))
	for i, row := range rows {
		val, exists := row[s.Feature]
		if !exists || val == nil {
			continue
		}
		vec := decodeVector(val)
		if vec == nil {
			continue
		}
		if len(vec) != s.dim {
			return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
				fmt.Sprintf("feast: vector for id %d has dim %d, expected %d", ids[i], len(vec), s.dim))
		}
		result[ids[i]] = vec
	}
	return result, nil
}

// Close 关闭客户端连接。官方 SDK 的 gRPC 连接由 gRPC 库管理，这里只释放引用。
func (s *EmbeddingSource) Close() error {
	s.client = nil
	return nil
}

// decodeVector 从 SDK 的 *types.Value 中提取向量。
// Feast 的向量特征通常是 double list，部分物化链路产出 float list，两者都兼容。
func decodeVector(val *feasttypes.Value) []float64 {
	if list := val.GetDoubleListVal(); list != nil {
		if v := list.GetVal(); len(v) > 0 {
			out := make([]float64, len(v))
			copy(out, v)
			return out
		}
	}
	if list := val.GetFloatListVal(); list != nil {
		if v := list.GetVal(); len(v) > 0 {
			out := make([]float64, len(v))
			for i, f := range v {
				out[i] = float64(f)
			}
			return out
		}
	}
	return nil
}

var _ core.EmbeddingStore = (*EmbeddingSource)(nil)
