package evaluate

import "math"

// CalculateRetrievalMetrics 计算标准排序检索指标
//
// 纯函数：输入为有序的检索结果 id 列表、标注的相关 id 集合与截断位置 K。
//   - Precision@K = |相关 ∩ 前K| / K（K=0 时为 0）
//   - Recall@K    = |相关 ∩ 前K| / |相关集|（相关集为空时为 0）
//   - MRR         = 1/(全列表中首个相关结果的 1 起始排名)，无相关结果为 0
//   - NDCG@K      = 二值增益 DCG/IDCG，IDCG 为 0 时取 0
func CalculateRetrievalMetrics(retrieved []string, relevant map[string]bool, k int) RetrievalMetrics {
	topK := retrieved
	if k >= 0 && k < len(retrieved) {
		topK = retrieved[:k]
	}

	relevantInK := 0
	for _, id := range topK {
		if relevant[id] {
			relevantInK++
		}
	}

	precision := 0.0
	if k > 0 {
		precision = float64(relevantInK) / float64(k)
	}

	recall := 0.0
	if len(relevant) > 0 {
		recall = float64(relevantInK) / float64(len(relevant))
	}

	// 倒数排名在完整列表上查找，不受 K 截断
	mrr := 0.0
	for i, id := range retrieved {
		if relevant[id] {
			mrr = 1.0 / float64(i+1)
			break
		}
	}

	dcg := 0.0
	for i, id := range topK {
		if relevant[id] {
			dcg += 1.0 / math.Log2(float64(i)+2)
		}
	}

	// 理想排序：全部相关文档置顶，至多 min(|相关集|, K) 个
	ideal := len(relevant)
	if k < ideal {
		ideal = k
	}
	idcg := 0.0
	for i := 0; i < ideal; i++ {
		idcg += 1.0 / math.Log2(float64(i)+2)
	}

	ndcg := 0.0
	if idcg > 0 {
		ndcg = dcg / idcg
	}

	return RetrievalMetrics{
		PrecisionAtK: round3(precision),
		RecallAtK:    round3(recall),
		MRR:          round3(mrr),
		NDCGAtK:      round3(ndcg),
		K:            k,
	}
}
