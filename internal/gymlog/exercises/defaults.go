package exercises

// DefaultExercises returns the built-in catalog: gym machines first,
// then common free weights and bodyweight exercises.
func DefaultExercises() []Exercise {
	return []Exercise{
		// machines
		{ID: "machine-ab-crunch", Name: "Ab Crunch", Category: CategoryMachine, MuscleGroup: "Core"},
		{ID: "machine-abduction-adduction", Name: "Abduction/Adduction", Category: CategoryMachine, MuscleGroup: "Legs"},
		{ID: "machine-abdominal", Name: "Abdominal", Category: CategoryMachine, MuscleGroup: "Core"},
		{ID: "machine-angled-leg-press", Name: "Angled Leg Press", Category: CategoryMachine, MuscleGroup: "Legs"},
		{ID: "machine-biceps-curl", Name: "Biceps Curl", Category: CategoryMachine, MuscleGroup: "Arms"},
		{ID: "machine-bilateral-arm-curl", Name: "Bilateral Arm Curl", Category: CategoryMachine, MuscleGroup: "Arms"},
		{ID: "machine-chest-press", Name: "Chest Press", Category: CategoryMachine, MuscleGroup: "Chest"},
		{ID: "machine-deltoid-raise", Name: "Deltoid Raise", Category: CategoryMachine, MuscleGroup: "Shoulders"},
		{ID: "machine-hip-thrust", Name: "Hip Thrust", Category: CategoryMachine, MuscleGroup: "Glutes"},
		{ID: "machine-lat-pull-down", Name: "Lat Pull Down", Category: CategoryMachine, MuscleGroup: "Back"},
		{ID: "machine-leg-curl-laying", Name: "Leg Curl (Laying)", Category: CategoryMachine, MuscleGroup: "Legs"},
		{ID: "machine-leg-curl-sitting", Name: "Leg Curl (Sitting)", Category: CategoryMachine, MuscleGroup: "Legs"},
		{ID: "machine-leg-extension", Name: "Leg Extension", Category: CategoryMachine, MuscleGroup: "Legs"},
		{ID: "machine-low-back", Name: "Low Back", Category: CategoryMachine, MuscleGroup: "Back"},
		{ID: "machine-pec-fly", Name: "Pec Fly", Category: CategoryMachine, MuscleGroup: "Chest"},
		{ID: "machine-rear-deltoid", Name: "Rear Deltoid", Category: CategoryMachine, MuscleGroup: "Shoulders"},
		{ID: "machine-rotary-torso", Name: "Rotary Torso", Category: CategoryMachine, MuscleGroup: "Core"},
		{ID: "machine-row", Name: "Row", Category: CategoryMachine, MuscleGroup: "Back"},
		{ID: "machine-shoulder-press", Name: "Shoulder Press", Category: CategoryMachine, MuscleGroup: "Shoulders"},
		{ID: "machine-standing-calf", Name: "Standing Calf", Category: CategoryMachine, MuscleGroup: "Legs"},
		{ID: "machine-triceps-press", Name: "Triceps Press", Category: CategoryMachine, MuscleGroup: "Arms"},
		{ID: "machine-triceps-extension", Name: "Triceps Extension", Category: CategoryMachine, MuscleGroup: "Arms"},

		// free weights
		{ID: "free-barbell-bench-press", Name: "Barbell Bench Press", Category: CategoryFreeWeight, MuscleGroup: "Chest"},
		{ID: "free-barbell-squat", Name: "Barbell Squat", Category: CategoryFreeWeight, MuscleGroup: "Legs"},
		{ID: "free-deadlift", Name: "Deadlift", Category: CategoryFreeWeight, MuscleGroup: "Back"},
		{ID: "free-overhead-press", Name: "Overhead Press", Category: CategoryFreeWeight, MuscleGroup: "Shoulders"},
		{ID: "free-barbell-row", Name: "Barbell Row", Category: CategoryFreeWeight, MuscleGroup: "Back"},
		{ID: "free-dumbbell-curl", Name: "Dumbbell Curl", Category: CategoryFreeWeight, MuscleGroup: "Arms"},
		{ID: "free-dumbbell-shoulder-press", Name: "Dumbbell Shoulder Press", Category: CategoryFreeWeight, MuscleGroup: "Shoulders"},
		{ID: "free-dumbbell-bench-press", Name: "Dumbbell Bench Press", Category: CategoryFreeWeight, MuscleGroup: "Chest"},
		{ID: "free-dumbbell-row", Name: "Dumbbell Row", Category: CategoryFreeWeight, MuscleGroup: "Back"},
		{ID: "free-lunges", Name: "Lunges", Category: CategoryFreeWeight, MuscleGroup: "Legs"},
		{ID: "free-romanian-deadlift", Name: "Romanian Deadlift", Category: CategoryFreeWeight, MuscleGroup: "Legs"},
		{ID: "free-face-pulls", Name: "Face Pulls", Category: CategoryFreeWeight, MuscleGroup: "Shoulders"},
		{ID: "free-lateral-raises", Name: "Lateral Raises", Category: CategoryFreeWeight, MuscleGroup: "Shoulders"},

		// bodyweight
		{ID: "bw-pull-ups", Name: "Pull-ups", Category: CategoryBodyweight, MuscleGroup: "Back"},
		{ID: "bw-dips", Name: "Dips", Category: CategoryBodyweight, MuscleGroup: "Chest"},
	}
}
