package analysis

import "github.com/delir1um/Bizzin-sub001/internal/analysis/contract"

type Classifier = contract.Classifier

type ProviderConfig = contract.ProviderConfig

type Input = contract.Input

type Result = contract.Result

type RemoteClassification = contract.RemoteClassification

type HealthCheckResult = contract.HealthCheckResult

type UsageRecord = contract.UsageRecord
