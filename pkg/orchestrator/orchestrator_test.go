package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/eduforge/lmsctl/pkg/config"
	apperrors "github.com/eduforge/lmsctl/pkg/errors"
	"github.com/eduforge/lmsctl/pkg/pipeline"
)

const (
	namespaceYAML = `apiVersion: v1
kind: Namespace
metadata:
  name: eduforge
`
	volumeYAML = `apiVersion: v1
kind: PersistentVolume
metadata:
  name: course-media-pv
spec:
  capacity:
    storage: 10Gi
  accessModes: ["ReadWriteOnce"]
  hostPath:
    path: /data/course-media
`
	claimYAML = `apiVersion: v1
kind: PersistentVolumeClaim
metadata:
  name: course-media
spec:
  accessModes: ["ReadWriteOnce"]
  resources:
    requests:
      storage: 10Gi
`
	configMapYAML = `apiVersion: v1
kind: ConfigMap
metadata:
  name: lms-settings
data:
  LMS_BASE: learn.example.com
`
	lmsDeploymentYAML = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: lms-app
spec:
  replicas: 2
  selector:
    matchLabels:
      app: lms
  template:
    metadata:
      labels:
        app: lms
    spec:
      containers:
        - name: lms
          image: ghcr.io/eduforge/lms:2.1.0
`
	lmsServiceYAML = `apiVersion: v1
kind: Service
metadata:
  name: lms-web
spec:
  selector:
    app: lms
  ports:
    - port: 80
      targetPort: 8000
`
	cmsDeploymentYAML = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: cms-app
spec:
  replicas: 1
  selector:
    matchLabels:
      app: cms
  template:
    metadata:
      labels:
        app: cms
    spec:
      containers:
        - name: cms
          image: ghcr.io/eduforge/cms:2.1.0
`
	cmsServiceYAML = `apiVersion: v1
kind: Service
metadata:
  name: cms-web
spec:
  selector:
    app: cms
  ports:
    - port: 80
      targetPort: 8010
`
	hpaYAML = `apiVersion: autoscaling/v2
kind: HorizontalPodAutoscaler
metadata:
  name: lms-hpa
spec:
  scaleTargetRef:
    apiVersion: apps/v1
    kind: Deployment
    name: lms-app
  minReplicas: 2
  maxReplicas: 8
  metrics:
    - type: Resource
      resource:
        name: cpu
        target:
          type: Utilization
          averageUtilization: 70
`
	ingressYAML = `apiVersion: networking.k8s.io/v1
kind: Ingress
metadata:
  name: eduforge-web
spec:
  ingressClassName: nginx
  rules:
    - host: learn.example.com
      http:
        paths:
          - path: /
            pathType: Prefix
            backend:
              service:
                name: lms-web
                port:
                  number: 80
`
)

// deployStageOrder is the full stage list of a deploy run.
var deployStageOrder = []string{
	"preflight",
	"namespace",
	"storage",
	"configmaps",
	"lms-deployment",
	"lms-service",
	"cms-deployment",
	"cms-service",
	"hpa",
	"ingress",
	"settle",
	"verify",
	"healthcheck",
}

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Check(ctx context.Context) error { return f(ctx) }

type proberFunc func(ctx context.Context) error

func (f proberFunc) Probe(ctx context.Context) error { return f(ctx) }

func passingChecker() checkerFunc {
	return func(context.Context) error { return nil }
}

func passingProber() proberFunc {
	return func(context.Context) error { return nil }
}

// writeLayout materializes the conventional manifest layout in a temp dir.
func writeLayout(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"namespace.yaml":         namespaceYAML,
		"storage/01-volume.yaml": volumeYAML,
		"storage/02-claim.yaml":  claimYAML,
		"config/lms.yaml":        configMapYAML,
		"lms/deployment.yaml":    lmsDeploymentYAML,
		"lms/service.yaml":       lmsServiceYAML,
		"cms/deployment.yaml":    cmsDeploymentYAML,
		"cms/service.yaml":       cmsServiceYAML,
		"hpa/lms.yaml":           hpaYAML,
		"ingress/web.yaml":       ingressYAML,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create layout dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func testConfig(manifestDir string) *config.Config {
	cfg := config.Default()
	cfg.ManifestDir = manifestDir
	cfg.SettleDelay = 0
	cfg.ApplyBurst = 50
	return cfg
}

func stageNames(run *pipeline.Run) []string {
	names := make([]string, len(run.Stages))
	for i, stage := range run.Stages {
		names[i] = stage.Name
	}
	return names
}

func stageByName(t *testing.T, run *pipeline.Run, name string) pipeline.StageResult {
	t.Helper()
	for _, stage := range run.Stages {
		if stage.Name == name {
			return stage
		}
	}
	t.Fatalf("run has no stage %q", name)
	return pipeline.StageResult{}
}

func TestDeploy_RunsEveryStageInOrder(t *testing.T) {
	clientset := fake.NewClientset()
	cfg := testConfig(writeLayout(t))
	var out bytes.Buffer

	orch := New(cfg, clientset,
		WithChecker(passingChecker()),
		WithProber(passingProber()),
		WithOutput(&out))

	run, err := orch.Deploy(context.Background())
	if err != nil {
		t.Fatalf("Deploy() failed: %v", err)
	}
	if run.Outcome != pipeline.OutcomeSucceeded {
		t.Errorf("outcome = %s, want %s", run.Outcome, pipeline.OutcomeSucceeded)
	}

	names := stageNames(run)
	if len(names) != len(deployStageOrder) {
		t.Fatalf("stage count = %d, want %d: %v", len(names), len(deployStageOrder), names)
	}
	for i, want := range deployStageOrder {
		if names[i] != want {
			t.Errorf("stage[%d] = %s, want %s", i, names[i], want)
		}
	}
	for _, stage := range run.Stages {
		if stage.Status != pipeline.StatusSuccess {
			t.Errorf("stage %s status = %s, want success (%s)", stage.Name, stage.Status, stage.Error)
		}
	}

	// Applied state must be visible in the cluster.
	ctx := context.Background()
	if _, err := clientset.CoreV1().Namespaces().Get(ctx, "eduforge", metav1.GetOptions{}); err != nil {
		t.Errorf("namespace not created: %v", err)
	}
	if _, err := clientset.AppsV1().Deployments("eduforge").Get(ctx, "lms-app", metav1.GetOptions{}); err != nil {
		t.Errorf("lms deployment not created: %v", err)
	}
	if _, err := clientset.AppsV1().Deployments("eduforge").Get(ctx, "cms-app", metav1.GetOptions{}); err != nil {
		t.Errorf("cms deployment not created: %v", err)
	}
	if _, err := clientset.NetworkingV1().Ingresses("eduforge").Get(ctx, "eduforge-web", metav1.GetOptions{}); err != nil {
		t.Errorf("ingress not created: %v", err)
	}

	if !strings.Contains(out.String(), "Namespace: eduforge") {
		t.Error("verify stage should have rendered the state table")
	}
}

func TestDeploy_SecondRunConverges(t *testing.T) {
	clientset := fake.NewClientset()
	cfg := testConfig(writeLayout(t))

	orch := New(cfg, clientset,
		WithChecker(passingChecker()),
		WithProber(passingProber()),
		WithOutput(&bytes.Buffer{}))

	if _, err := orch.Deploy(context.Background()); err != nil {
		t.Fatalf("first Deploy() failed: %v", err)
	}
	run, err := orch.Deploy(context.Background())
	if err != nil {
		t.Fatalf("second Deploy() failed: %v", err)
	}
	if run.Outcome != pipeline.OutcomeSucceeded {
		t.Errorf("re-deploy outcome = %s, want %s", run.Outcome, pipeline.OutcomeSucceeded)
	}
}

func TestDeploy_AbortsAtFirstFailure(t *testing.T) {
	clientset := fake.NewClientset()
	clientset.PrependReactor("create", "deployments", func(action k8stesting.Action) (bool, runtime.Object, error) {
		deploy := action.(k8stesting.CreateAction).GetObject().(*appsv1.Deployment)
		if deploy.Name == "lms-app" {
			return true, nil, fmt.Errorf("admission webhook denied the request")
		}
		return false, nil, nil
	})

	cfg := testConfig(writeLayout(t))
	probed := false
	orch := New(cfg, clientset,
		WithChecker(passingChecker()),
		WithProber(proberFunc(func(context.Context) error {
			probed = true
			return nil
		})),
		WithOutput(&bytes.Buffer{}))

	run, err := orch.Deploy(context.Background())
	if err == nil {
		t.Fatal("Deploy() should fail when a critical stage fails")
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeApplyFailed {
		t.Errorf("error code = %s, want %s", apperrors.CodeOf(err), apperrors.ErrCodeApplyFailed)
	}
	if run.Outcome != pipeline.OutcomeAborted {
		t.Errorf("outcome = %s, want %s", run.Outcome, pipeline.OutcomeAborted)
	}

	failed := run.FirstFailure()
	if failed == nil || failed.Name != "lms-deployment" {
		t.Fatalf("FirstFailure() = %+v, want stage lms-deployment", failed)
	}

	// Everything after the failed stage must be skipped, not run.
	for _, name := range []string{"lms-service", "cms-deployment", "cms-service", "hpa", "ingress", "settle", "verify", "healthcheck"} {
		if status := stageByName(t, run, name).Status; status != pipeline.StatusSkipped {
			t.Errorf("stage %s status = %s, want skipped", name, status)
		}
	}
	if probed {
		t.Error("health probe must not run after an aborted apply")
	}
	if _, err := clientset.AppsV1().Deployments("eduforge").Get(context.Background(), "cms-app", metav1.GetOptions{}); err == nil {
		t.Error("cms deployment must not be created after the lms stage failed")
	}
}

func TestDeploy_PreflightFailureStopsBeforeApplies(t *testing.T) {
	clientset := fake.NewClientset()
	cfg := testConfig(writeLayout(t))

	orch := New(cfg, clientset,
		WithChecker(checkerFunc(func(context.Context) error {
			return apperrors.New(apperrors.ErrCodeClusterUnreachable, "API server did not answer")
		})),
		WithProber(passingProber()),
		WithOutput(&bytes.Buffer{}))

	run, err := orch.Deploy(context.Background())
	if err == nil {
		t.Fatal("Deploy() should fail when preflight fails")
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeClusterUnreachable {
		t.Errorf("error code = %s, want %s", apperrors.CodeOf(err), apperrors.ErrCodeClusterUnreachable)
	}
	if failed := run.FirstFailure(); failed == nil || failed.Name != "preflight" {
		t.Fatalf("FirstFailure() = %+v, want stage preflight", failed)
	}
	if actions := clientset.Fake.Actions(); len(actions) != 0 {
		t.Errorf("no API calls expected after failed preflight, got %d", len(actions))
	}
}

func TestDeploy_MissingManifestsFailTheirStage(t *testing.T) {
	dir := writeLayout(t)
	if err := os.Remove(filepath.Join(dir, "lms", "service.yaml")); err != nil {
		t.Fatalf("failed to remove fixture: %v", err)
	}

	clientset := fake.NewClientset()
	orch := New(testConfig(dir), clientset,
		WithChecker(passingChecker()),
		WithProber(passingProber()),
		WithOutput(&bytes.Buffer{}))

	run, err := orch.Deploy(context.Background())
	if err == nil {
		t.Fatal("Deploy() should fail when a manifest set is unreadable")
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeManifestInvalid {
		t.Errorf("error code = %s, want %s", apperrors.CodeOf(err), apperrors.ErrCodeManifestInvalid)
	}
	if failed := run.FirstFailure(); failed == nil || failed.Name != "lms-service" {
		t.Fatalf("FirstFailure() = %+v, want stage lms-service", failed)
	}
	if status := stageByName(t, run, "cms-deployment").Status; status != pipeline.StatusSkipped {
		t.Errorf("cms-deployment status = %s, want skipped", status)
	}
}

func TestDeploy_VerifyProblemsOnlyWarn(t *testing.T) {
	clientset := fake.NewClientset()
	clientset.PrependReactor("list", "pods", func(_ k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, fmt.Errorf("pods is forbidden")
	})

	cfg := testConfig(writeLayout(t))
	probed := false
	orch := New(cfg, clientset,
		WithChecker(passingChecker()),
		WithProber(proberFunc(func(context.Context) error {
			probed = true
			return nil
		})),
		WithOutput(&bytes.Buffer{}))

	run, err := orch.Deploy(context.Background())
	if err != nil {
		t.Fatalf("verification problems must not fail the run: %v", err)
	}
	if run.Outcome != pipeline.OutcomeSucceeded {
		t.Errorf("outcome = %s, want %s", run.Outcome, pipeline.OutcomeSucceeded)
	}
	if status := stageByName(t, run, "verify").Status; status != pipeline.StatusWarned {
		t.Errorf("verify status = %s, want warned", status)
	}
	if !probed {
		t.Error("health probe should still run after a verify warning")
	}
}

func TestDeploy_ProbeFailureOnlyWarns(t *testing.T) {
	clientset := fake.NewClientset()
	cfg := testConfig(writeLayout(t))

	orch := New(cfg, clientset,
		WithChecker(passingChecker()),
		WithProber(proberFunc(func(context.Context) error {
			return apperrors.New(apperrors.ErrCodeProbeInconclusive, "endpoint did not answer")
		})),
		WithOutput(&bytes.Buffer{}))

	run, err := orch.Deploy(context.Background())
	if err != nil {
		t.Fatalf("probe failures must not fail the run: %v", err)
	}
	if status := stageByName(t, run, "healthcheck").Status; status != pipeline.StatusWarned {
		t.Errorf("healthcheck status = %s, want warned", status)
	}
}

func TestDeploy_InterruptedSettleAbortsRun(t *testing.T) {
	clientset := fake.NewClientset()
	cfg := testConfig(writeLayout(t))
	cfg.SettleDelay = config.Duration(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	orch := New(cfg, clientset,
		WithChecker(passingChecker()),
		WithProber(passingProber()),
		WithOutput(&bytes.Buffer{}))

	run, err := orch.Deploy(ctx)
	if err == nil {
		t.Fatal("Deploy() should fail when the settle wait is interrupted")
	}
	if failed := run.FirstFailure(); failed == nil || failed.Name != "settle" {
		t.Fatalf("FirstFailure() = %+v, want stage settle", failed)
	}
	for _, name := range []string{"verify", "healthcheck"} {
		if status := stageByName(t, run, name).Status; status != pipeline.StatusSkipped {
			t.Errorf("stage %s status = %s, want skipped", name, status)
		}
	}
}

func TestVerify_RendersConfiguredFormat(t *testing.T) {
	clientset := fake.NewClientset()
	cfg := testConfig(writeLayout(t))
	cfg.Format = "json"
	var out bytes.Buffer

	orch := New(cfg, clientset, WithOutput(&out))
	report := orch.Verify(context.Background())

	if report == nil {
		t.Fatal("Verify() returned no report")
	}
	if report.Namespace != "eduforge" {
		t.Errorf("report namespace = %q, want eduforge", report.Namespace)
	}
	if !strings.Contains(out.String(), `"namespace"`) {
		t.Errorf("output should be JSON, got: %s", out.String())
	}
}
